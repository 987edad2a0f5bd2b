// Package logging configures structured logging on top of log/slog.
//
// Setup builds a *slog.Logger from configuration (level, json/text format,
// optional source positions) and installs it as the process default, so
// component loggers created with slog.Default().With("component", ...) pick
// it up.
package logging
