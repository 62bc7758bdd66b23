package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is one of the closed set of Microsoft Store app categories.
type Category string

const (
	CategoryBooksAndReference     Category = "BooksAndReference"
	CategoryBusiness              Category = "Business"
	CategoryDeveloperTools        Category = "DeveloperTools"
	CategoryEducation             Category = "Education"
	CategoryEntertainment         Category = "Entertainment"
	CategoryFoodDining            Category = "FoodDining"
	CategoryGovernmentAndPolitics Category = "GovernmentAndPolitics"
	CategoryHealthFitness         Category = "HealthFitness"
	CategoryKidsAndFamily         Category = "KidsAndFamily"
	CategoryLifestyle             Category = "Lifestyle"
	CategoryMedical               Category = "Medical"
	CategoryMultimediaDesign      Category = "MultimediaDesign"
	CategoryMusic                 Category = "Music"
	CategoryNavigationAndMaps     Category = "NavigationAndMaps"
	CategoryNewsAndWeather        Category = "NewsAndWeather"
	CategoryPersonalFinance       Category = "PersonalFinance"
	CategoryPersonalization       Category = "Personalization"
	CategoryPhotoVideo            Category = "PhotoVideo"
	CategoryProductivity          Category = "Productivity"
	CategorySecurity              Category = "Security"
	CategoryShopping              Category = "Shopping"
	CategorySocial                Category = "Social"
	CategorySports                Category = "Sports"
	CategoryTravel                Category = "Travel"
	CategoryUtilitiesAndTools     Category = "UtilitiesAndTools"
)

var allCategories = []Category{
	CategoryBooksAndReference,
	CategoryBusiness,
	CategoryDeveloperTools,
	CategoryEducation,
	CategoryEntertainment,
	CategoryFoodDining,
	CategoryGovernmentAndPolitics,
	CategoryHealthFitness,
	CategoryKidsAndFamily,
	CategoryLifestyle,
	CategoryMedical,
	CategoryMultimediaDesign,
	CategoryMusic,
	CategoryNavigationAndMaps,
	CategoryNewsAndWeather,
	CategoryPersonalFinance,
	CategoryPersonalization,
	CategoryPhotoVideo,
	CategoryProductivity,
	CategorySecurity,
	CategoryShopping,
	CategorySocial,
	CategorySports,
	CategoryTravel,
	CategoryUtilitiesAndTools,
}

var categoriesByLower = func() map[string]Category {
	set := make(map[string]Category, len(allCategories))
	for _, category := range allCategories {
		set[strings.ToLower(string(category))] = category
	}
	return set
}()

// ParseCategory maps free-form category text onto the closed enumeration,
// ignoring case.
func ParseCategory(value string) (Category, error) {
	category, ok := categoriesByLower[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("unknown category %q", value)
	}
	return category, nil
}

func (c Category) String() string { return string(c) }

// UnmarshalJSON accepts category names case-insensitively.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
