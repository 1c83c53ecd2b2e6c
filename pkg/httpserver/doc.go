// Package httpserver runs an http.Server with context-driven graceful
// shutdown and slog-based lifecycle logging.
package httpserver
