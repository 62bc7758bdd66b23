// Package store persists app submissions and repository scan requests in
// SQLite. Reads are served directly from the store; batch mutations run
// inside an explicit Session so each unit of work commits independently.
package store
