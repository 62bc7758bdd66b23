// Package main hosts the octostore CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the daemon via `serve` and translates
// client invocations into HTTP calls against a running daemon: scan requests,
// submission lookups, listings, health checks, and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
