package httpbridge

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored in the context by the
// request ID middleware, or an empty string when the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDConfig configures the request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName is the request and response header carrying the ID.
	// Defaults to "X-Request-ID".
	HeaderName string

	// GenerateFunc produces a fresh ID for requests that need one. It
	// receives the request so IDs can be derived from it. Defaults to
	// GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming reuses an ID already present on the incoming request
	// header instead of generating a new one.
	TrustIncoming bool
}

func (cfg RequestIDConfig) resolved() RequestIDConfig {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}

	if cfg.GenerateFunc == nil {
		cfg.GenerateFunc = GenerateUUIDv4
	}

	return cfg
}

func (cfg RequestIDConfig) idFor(r *http.Request) string {
	if cfg.TrustIncoming {
		if id := r.Header.Get(cfg.HeaderName); id != "" {
			return id
		}
	}

	return cfg.GenerateFunc(r)
}

// RequestID returns a middleware that tags each request with an ID. The ID
// is written to the request header for downstream handlers, to the response
// header for the caller, and into the request context where
// RequestIDFromContext finds it. A generator returning an empty string
// leaves the request untagged.
func RequestID(cfg RequestIDConfig) Middleware {
	cfg = cfg.resolved()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cfg.idFor(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			r.Header.Set(cfg.HeaderName, id)
			w.Header().Set(cfg.HeaderName, id)

			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestID adds the request ID middleware to the bridge chain.
func WithRequestID(cfg RequestIDConfig) Option {
	return WithMiddleware(RequestID(cfg))
}

// GenerateUUIDv4 returns a random UUID version 4 string.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a UUID version 7 string. These embed a timestamp,
// so IDs generated later sort lexicographically after earlier ones.
//
// See: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewSnowflakeGenerator returns a request ID generator producing Snowflake
// IDs from a node with a random 10-bit node ID. Snowflake IDs are numeric
// and time-ordered, which keeps them compact in logs.
func NewSnowflakeGenerator() (func(r *http.Request) string, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(nodeID & (1<<10 - 1))
	if err != nil {
		return nil, err
	}

	return func(_ *http.Request) string {
		return node.Generate().String()
	}, nil
}
