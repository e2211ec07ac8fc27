// Package logging provides a unified logging interface for the Friedmann explorer.
// It abstracts the underlying logging implementation, allowing consistent logging
// across the integrator, the HTTP server and the watch loop while supporting
// multiple backends.
package logging
