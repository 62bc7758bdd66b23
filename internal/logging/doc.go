// Package logging wires log/slog handlers for the daemon and CLI, along with
// the attribute helpers and shared field names used across subsystems.
package logging
