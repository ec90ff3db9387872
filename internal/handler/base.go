// Package handler defines the HTTP boundary of the curve service. All
// wide integers cross this boundary as decimal strings; handlers own the
// parsing and the translation of curve error kinds into HTTP errors, and
// the core never sees a string.
package handler

import "log/slog"

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *slog.Logger
}
