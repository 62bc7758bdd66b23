// Package schedule provides the periodic task primitive shared by the
// discovery and scan background jobs.
package schedule
