// Package daemon hosts the long-running octostore process: the discovery and
// scan jobs, the HTTP API, and the single-instance lock.
package daemon
