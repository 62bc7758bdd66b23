package manifest

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tailscale/hujson"
	"golang.org/x/text/language"
)

// repositoryHost is the base against which repo-relative manifest URLs are
// resolved.
const repositoryHost = "https://github.com"

// Parse deserializes raw ms-store-publish.json content. Field names match
// case-insensitively and trailing commas are tolerated. Relative URL fields
// are resolved against https://github.com/<repoFullName>/. The returned error
// is descriptive and safe to surface to the submitting developer.
func Parse(raw []byte, repoFullName string) (*PublishManifest, error) {
	standardized := raw
	if fixed, err := hujson.Standardize(raw); err == nil {
		standardized = fixed
	}

	var parsed *PublishManifest
	if err := json.Unmarshal(standardized, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if parsed == nil {
		return nil, fmt.Errorf("parse %s: document is empty", FileName)
	}
	if strings.TrimSpace(parsed.Name) == "" {
		return nil, fmt.Errorf("parse %s: name is required", FileName)
	}

	parsed.resolveURLs(repoFullName)
	parsed.canonicalizeLanguages()
	return parsed, nil
}

// resolveURLs rewrites every repo-relative URL field to an absolute URL under
// the owning repository, leaving absolute URLs untouched.
func (m *PublishManifest) resolveURLs(repoFullName string) {
	m.IconURL = resolveRepoURL(m.IconURL, repoFullName)
	m.PrivacyPolicyURL = resolveRepoURL(m.PrivacyPolicyURL, repoFullName)
	for i := range m.StoreListings {
		listing := &m.StoreListings[i]
		for j := range listing.Screenshots {
			listing.Screenshots[j].URL = resolveRepoURL(listing.Screenshots[j].URL, repoFullName)
		}
		for j := range listing.Trailers {
			listing.Trailers[j].URL = resolveRepoURL(listing.Trailers[j].URL, repoFullName)
		}
	}
	if m.Support != nil {
		m.Support.WebsiteURL = resolveRepoURL(m.Support.WebsiteURL, repoFullName)
	}
	if m.Pwa != nil {
		m.Pwa.URL = resolveRepoURL(m.Pwa.URL, repoFullName)
		m.Pwa.ManifestURL = resolveRepoURL(m.Pwa.ManifestURL, repoFullName)
		m.Pwa.ServiceWorkerURL = resolveRepoURL(m.Pwa.ServiceWorkerURL, repoFullName)
	}
	if m.WindowsApp != nil {
		m.WindowsApp.URL = resolveRepoURL(m.WindowsApp.URL, repoFullName)
	}
}

// canonicalizeLanguages rewrites valid BCP-47 listing language tags into
// canonical form. Unparseable tags pass through unchanged.
func (m *PublishManifest) canonicalizeLanguages() {
	for i := range m.StoreListings {
		raw := strings.TrimSpace(m.StoreListings[i].Language)
		if raw == "" {
			continue
		}
		if tag, err := language.Parse(raw); err == nil {
			m.StoreListings[i].Language = tag.String()
		}
	}
}

func resolveRepoURL(value, repoFullName string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if parsed.IsAbs() {
		return trimmed
	}
	return repositoryHost + "/" + repoFullName + "/" + strings.TrimLeft(trimmed, "/")
}
