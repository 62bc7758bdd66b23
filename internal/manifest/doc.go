// Package manifest defines the ms-store-publish.json document model and the
// lenient codec that parses raw repository content into it.
package manifest
