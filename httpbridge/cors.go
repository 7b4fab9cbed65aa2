package httpbridge

import (
	"github.com/rs/cors"
)

// WithCORS adds a CORS middleware built from the given options to the
// bridge chain. Preflight OPTIONS requests are answered by the middleware
// and never reach the engine.
//
// Spec references:
//   - CORS protocol: https://fetch.spec.whatwg.org/#http-cors-protocol
//   - Web Origin:    https://www.rfc-editor.org/rfc/rfc6454
func WithCORS(opts cors.Options) Option {
	return WithMiddleware(cors.New(opts).Handler)
}
