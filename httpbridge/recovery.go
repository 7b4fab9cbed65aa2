package httpbridge

import (
	"log/slog"
	"net/http"
)

// RecoveryConfig configures the recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives a record for each recovered panic, including the
	// panic value and the request method and path. When nil, no logging
	// is performed.
	Logger *slog.Logger
}

// Recovery returns a middleware that recovers from panics in downstream
// handlers. When a panic occurs it returns 500 Internal Server Error to the
// client and optionally logs the panic value.
func Recovery(cfg RecoveryConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if cfg.Logger != nil {
						cfg.Logger.ErrorContext(r.Context(), "httpbridge: panic recovered",
							slog.Any("panic", v),
							slog.String("method", r.Method),
							slog.String("path", r.URL.Path),
						)
					}

					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WithRecovery adds the recovery middleware to the bridge chain. The bridge
// logger must be set before this option for panics to be logged.
func WithRecovery() Option {
	return func(b *Bridge) {
		b.middlewares = append(b.middlewares, Recovery(RecoveryConfig{Logger: b.logger}))
	}
}
