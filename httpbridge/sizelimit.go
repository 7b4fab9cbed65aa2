package httpbridge

import (
	"errors"
	"net/http"
)

// ErrInvalidMaxBytes is returned when RequestSizeLimitConfig.MaxBytes is not
// greater than zero.
var ErrInvalidMaxBytes = errors.New("httpbridge: request body limit must be greater than zero")

// RequestSizeLimitConfig configures the request size limit middleware
// behaviour.
type RequestSizeLimitConfig struct {
	// MaxBytes is the largest request body accepted, in bytes. Must be
	// greater than zero.
	MaxBytes int64
}

// RequestSizeLimit returns a middleware that caps incoming request bodies at
// MaxBytes using http.MaxBytesReader. Downstream reads past the limit fail
// with *http.MaxBytesError; a handler that propagates the error gets a 413
// Request Entity Too Large response from the default error renderer.
func RequestSizeLimit(cfg RequestSizeLimitConfig) (Middleware, error) {
	if cfg.MaxBytes <= 0 {
		return nil, ErrInvalidMaxBytes
	}

	limit := cfg.MaxBytes

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}, nil
}
