// Package logger builds configured log/slog loggers.
//
// Output format and level come from the environment (LOG_FORMAT, LOG_LEVEL);
// JSON is the default for production aggregation, text for local reading.
// Component loggers carry a "component" attribute so records from the
// issuance and verification paths can be separated in one stream.
package logger
