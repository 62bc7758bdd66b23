package manifest

// FileName is the manifest file looked for in repositories. The name is fixed
// and case-sensitive.
const FileName = "ms-store-publish.json"

// PublishManifest is the parsed ms-store-publish.json document. URL fields
// are absolute after parsing; relative paths are resolved against the owning
// repository.
type PublishManifest struct {
	Name             string   `json:"name"`
	IconURL          string   `json:"iconUrl"`
	Category         Category `json:"category"`
	PrivacyPolicyURL string   `json:"privacyPolicyUrl"`

	StoreListings []StoreListing `json:"storeListings"`

	SecondaryCategory *Category    `json:"secondaryCategory,omitempty"`
	Support           *SupportInfo `json:"support,omitempty"`

	Pwa        *ProgressiveWebAppPackage    `json:"pwa,omitempty"`
	WindowsApp *WindowsExecutableAppPackage `json:"windowsApp,omitempty"`
}

// StoreListing is a per-language store listing.
type StoreListing struct {
	Language    string       `json:"language"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Screenshots []Screenshot `json:"screenshots"`

	WhatsNew                  string       `json:"whatsNew,omitempty"`
	Features                  []string     `json:"features,omitempty"`
	Trailers                  []Screenshot `json:"trailers,omitempty"`
	ShortName                 string       `json:"shortName,omitempty"`
	VoiceTitle                string       `json:"voiceTitle,omitempty"`
	ShortDescription          string       `json:"shortDescription,omitempty"`
	Keywords                  []string     `json:"keywords,omitempty"`
	CopyrightAndTrademarkInfo string       `json:"copyrightAndTrademarkInfo,omitempty"`
	AdditionalLicenseTerms    string       `json:"additionalLicenseTerms,omitempty"`
	DevelopedBy               string       `json:"developedBy,omitempty"`
	PublishedBy               string       `json:"publishedBy,omitempty"`
}

// Screenshot is an image or trailer entry in a store listing.
type Screenshot struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// SupportInfo holds developer support contact details.
type SupportInfo struct {
	WebsiteURL         string `json:"websiteUrl,omitempty"`
	SupportContactInfo string `json:"supportContactInfo,omitempty"`
	Phone              string `json:"phone,omitempty"`
	AddressLine1       string `json:"addressLine1,omitempty"`
	AddressLine2       string `json:"addressLine2,omitempty"`
	PostalCode         string `json:"postalCode,omitempty"`
	StateProvince      string `json:"stateProvince,omitempty"`
	City               string `json:"city,omitempty"`
	Country            string `json:"country,omitempty"`
}

// ProgressiveWebAppPackage describes a PWA submission source.
type ProgressiveWebAppPackage struct {
	URL              string `json:"url"`
	ManifestURL      string `json:"manifestUrl,omitempty"`
	ServiceWorkerURL string `json:"serviceWorkerUrl,omitempty"`
}

// WindowsExecutableAppPackage describes an .exe or .msi submission source.
// The URL may be repo-relative and may reference the latest GitHub release
// via {{tag}} or {{version}} placeholders.
type WindowsExecutableAppPackage struct {
	URL string `json:"url"`
}
