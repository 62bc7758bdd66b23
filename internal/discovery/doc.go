// Package discovery implements the periodic corpus-wide search for publish
// manifest files.
package discovery
