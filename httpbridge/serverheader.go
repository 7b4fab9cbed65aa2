package httpbridge

import (
	"fmt"
	"net/http"
	"os"
)

// ServerHostnameHeader is the response header set by the server header
// middleware.
const ServerHostnameHeader = "X-Server-Hostname"

// ServerHeaderConfig configures the server header middleware behaviour.
type ServerHeaderConfig struct {
	// Hostname is reported verbatim when set.
	Hostname string

	// HostnameEnv names environment variables tried in order when Hostname
	// is empty, such as ["POD_NAME", "HOSTNAME"]. The first variable with a
	// non-empty value wins. When none match, os.Hostname supplies the
	// value.
	HostnameEnv []string
}

// ServerHeader returns a middleware that stamps each response with an
// X-Server-Hostname header identifying the serving instance. The hostname is
// resolved once, when the middleware is created, and an error is returned if
// it cannot be determined.
func ServerHeader(cfg ServerHeaderConfig) (Middleware, error) {
	hostname, err := resolveHostname(cfg)
	if err != nil {
		return nil, fmt.Errorf("httpbridge: resolve server hostname: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(ServerHostnameHeader, hostname)
			next.ServeHTTP(w, r)
		})
	}, nil
}

func resolveHostname(cfg ServerHeaderConfig) (string, error) {
	if cfg.Hostname != "" {
		return cfg.Hostname, nil
	}

	for _, name := range cfg.HostnameEnv {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value, nil
		}
	}

	return os.Hostname()
}
