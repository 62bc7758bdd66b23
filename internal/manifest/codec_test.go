package manifest_test

import (
	"strings"
	"testing"

	"octostore/internal/manifest"
)

func TestParseResolvesRelativeURLs(t *testing.T) {
	raw := []byte(`{
		"name": "Widget",
		"iconUrl": "/assets/icon.png",
		"category": "DeveloperTools",
		"privacyPolicyUrl": "docs/privacy.md",
		"storeListings": [
			{
				"language": "en-us",
				"name": "Widget",
				"description": "A widget.",
				"screenshots": [{"url": "assets/shot1.png", "caption": "Main"}]
			}
		]
	}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.IconURL != "https://github.com/acme/widget/assets/icon.png" {
		t.Fatalf("unexpected icon URL: %s", parsed.IconURL)
	}
	if parsed.PrivacyPolicyURL != "https://github.com/acme/widget/docs/privacy.md" {
		t.Fatalf("unexpected privacy policy URL: %s", parsed.PrivacyPolicyURL)
	}
	if got := parsed.StoreListings[0].Screenshots[0].URL; got != "https://github.com/acme/widget/assets/shot1.png" {
		t.Fatalf("unexpected screenshot URL: %s", got)
	}
}

func TestParseLeavesAbsoluteURLsUntouched(t *testing.T) {
	raw := []byte(`{
		"name": "Widget",
		"iconUrl": "https://cdn.example.com/icon.png",
		"category": "Productivity",
		"privacyPolicyUrl": "https://example.com/privacy",
		"storeListings": []
	}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.IconURL != "https://cdn.example.com/icon.png" {
		t.Fatalf("absolute icon URL was rewritten: %s", parsed.IconURL)
	}
	if parsed.PrivacyPolicyURL != "https://example.com/privacy" {
		t.Fatalf("absolute privacy URL was rewritten: %s", parsed.PrivacyPolicyURL)
	}
}

func TestParseToleratesTrailingCommas(t *testing.T) {
	raw := []byte(`{
		"name": "Widget",
		"category": "Games",
		"storeListings": [
			{"language": "en", "name": "Widget", "description": "d", "screenshots": [],},
		],
	}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed on trailing commas: %v", err)
	}
	if parsed.Category != manifest.CategoryGames {
		t.Fatalf("unexpected category: %s", parsed.Category)
	}
}

func TestParseMatchesFieldNamesCaseInsensitively(t *testing.T) {
	raw := []byte(`{"Name": "Widget", "Category": "games", "IconUrl": "icon.png"}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Name != "Widget" {
		t.Fatalf("unexpected name: %q", parsed.Name)
	}
	if parsed.Category != manifest.CategoryGames {
		t.Fatalf("category not matched case-insensitively: %s", parsed.Category)
	}
	if parsed.IconURL != "https://github.com/acme/widget/icon.png" {
		t.Fatalf("unexpected icon URL: %s", parsed.IconURL)
	}
}

func TestParseRejectsUnknownCategory(t *testing.T) {
	raw := []byte(`{"name": "Widget", "category": "NotACategory"}`)

	if _, err := manifest.Parse(raw, "acme/widget"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestParseRequiresName(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{"missing", `{"category": "Games"}`},
		{"blank", `{"name": "  ", "category": "Games"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tc.raw), "acme/widget")
			if err == nil {
				t.Fatal("expected error when name missing")
			}
			if !strings.Contains(err.Error(), "name is required") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseRejectsEmptyDocuments(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{"null", `null`},
		{"empty", ``},
		{"garbage", `{not json`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := manifest.Parse([]byte(tc.raw), "acme/widget"); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestParseCanonicalizesListingLanguages(t *testing.T) {
	raw := []byte(`{
		"name": "Widget",
		"category": "Music",
		"storeListings": [
			{"language": "EN-us", "name": "Widget", "description": "d", "screenshots": []},
			{"language": "not a tag!!", "name": "Widget", "description": "d", "screenshots": []}
		]
	}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := parsed.StoreListings[0].Language; got != "en-US" {
		t.Fatalf("language not canonicalized: %q", got)
	}
	if got := parsed.StoreListings[1].Language; got != "not a tag!!" {
		t.Fatalf("invalid language should pass through unchanged, got %q", got)
	}
}

func TestParseNestedPackageURLs(t *testing.T) {
	raw := []byte(`{
		"name": "Widget",
		"category": "UtilitiesAndTools",
		"support": {"websiteUrl": "SUPPORT.md"},
		"pwa": {"url": "https://widget.example.com", "manifestUrl": "pwa/manifest.json"},
		"windowsApp": {"url": "releases/download/{{tag}}/widget-{{version}}.msi"}
	}`)

	parsed, err := manifest.Parse(raw, "acme/widget")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Support.WebsiteURL != "https://github.com/acme/widget/SUPPORT.md" {
		t.Fatalf("unexpected support URL: %s", parsed.Support.WebsiteURL)
	}
	if parsed.Pwa.URL != "https://widget.example.com" {
		t.Fatalf("absolute pwa URL was rewritten: %s", parsed.Pwa.URL)
	}
	if parsed.Pwa.ManifestURL != "https://github.com/acme/widget/pwa/manifest.json" {
		t.Fatalf("unexpected pwa manifest URL: %s", parsed.Pwa.ManifestURL)
	}
	if !strings.HasPrefix(parsed.WindowsApp.URL, "https://github.com/acme/widget/releases/download/") {
		t.Fatalf("unexpected windows app URL: %s", parsed.WindowsApp.URL)
	}
}

func TestParseCategoryAliases(t *testing.T) {
	got, err := manifest.ParseCategory("developertools")
	if err != nil {
		t.Fatalf("ParseCategory failed: %v", err)
	}
	if got != manifest.CategoryDeveloperTools {
		t.Fatalf("unexpected category: %s", got)
	}
	if _, err := manifest.ParseCategory("nope"); err == nil {
		t.Fatal("expected error for unknown category name")
	}
}
