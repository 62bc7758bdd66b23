// Package github implements the subset of the GitHub REST API that manifest
// discovery depends on: code search, tree listings, raw content fetches, and
// release lookups.
package github
