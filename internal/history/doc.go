// Package history records completed and failed invocations in a local
// SQLite database so "reel history" can show what ran, when, and how it
// ended.
package history
