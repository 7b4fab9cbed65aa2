// Package httpbridge exposes a dispatch.Engine as a net/http handler.
//
// The engine itself is transport-agnostic; the bridge is the reference
// transport. It feeds the request method and URL path into the engine,
// renders handler results as JSON responses, and translates the dispatch
// outcome into HTTP status codes: 404 when no route matched, 405 with an
// Allow header when the path is known under other methods, and 400 when the
// request method is empty.
//
//	engine := dispatch.New()
//	engine.GET("/user/{id:int}", showUser)
//
//	bridge := httpbridge.New(engine,
//	    httpbridge.WithLogger(logger),
//	    httpbridge.WithRecovery(),
//	    httpbridge.WithRequestID(httpbridge.RequestIDConfig{}),
//	)
//
//	http.ListenAndServe(":8080", bridge)
//
// # Handler Results
//
// Handler results are JSON-encoded with status 200, or 204 when nil. A
// result may implement StatusCode() int to pick its own code:
//
//	type created struct {
//	    ID string `json:"id"`
//	}
//
//	func (created) StatusCode() int { return http.StatusCreated }
//
// Non-JSON bodies are returned as *Payload, written verbatim:
//
//	return &httpbridge.Payload{
//	    ContentType: "text/html; charset=utf-8",
//	    Body:        page,
//	}, nil
//
// # Request Access
//
// Engine handlers reach the raw request through the dispatch context:
//
//	func createUser(c *dispatch.Context) (any, error) {
//	    var in userInput
//	    if err := httpbridge.BindJSON(httpbridge.RequestFrom(c.Context()), &in); err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// # Middleware
//
// Options assemble a net/http middleware chain around the bridge, running in
// the order the options are given. WithRecovery catches panics, WithRequestID
// stamps a request ID header, WithCORS answers preflight requests, and
// WithTracing opens an OpenTelemetry span per dispatch named after the
// matched route template. Plain func(http.Handler) http.Handler middleware
// plugs in through WithMiddleware, so the bridge also composes with chi or
// any other router it is mounted on.
//
// RequestSizeLimit and ServerHeader build middleware from a validated config
// and are wired through WithMiddleware:
//
//	limit, err := httpbridge.RequestSizeLimit(httpbridge.RequestSizeLimitConfig{
//	    MaxBytes: 1 << 20,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bridge := httpbridge.New(engine, httpbridge.WithMiddleware(limit))
package httpbridge
