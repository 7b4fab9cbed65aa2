// Package dispatch implements a transport-agnostic request router: it maps
// (method, path) pairs to registered handlers, extracts named path
// parameters, runs pre-handler middleware, and builds concrete paths back
// from named routes.
//
// The package deliberately owns no wire concerns. Dispatch returns a
// structured Outcome and the transport collaborator (see the httpbridge
// package) decides which status code and body correspond to each outcome
// kind, per RFC 9110 Sections 15.5.5 (404) and 15.5.6 (405).
//
// # Engine
//
// Create an engine, register routes, dispatch:
//
//	e := dispatch.New()
//	e.GET("/user/{id}", func(c *dispatch.Context) (any, error) {
//	    return fetchUser(c.Context(), c.Param("id"))
//	})
//
//	out, err := e.Dispatch(ctx, "GET", "/user/42")
//
// Registration happens once at startup; after the first Dispatch call the
// route table must be treated as read-only. Dispatch itself is safe for
// unlimited concurrent use.
//
// # Path Templates
//
// Templates contain literal segments and {name} placeholders. A
// placeholder matches one or more characters excluding "/", and the
// matched raw substring is bound to the placeholder name:
//
//	e.GET("/articles/{category}/{id}", handler)
//
// Placeholder names must be identifiers and unique within one template.
// Every other character in the template is literal; regexp metacharacters
// such as "." and "+" are escaped before compilation, and the compiled
// matcher is anchored to the whole path, never a prefix.
//
// A placeholder may carry a constraint after a colon, either a raw regexp
// or a named macro:
//
//	e.GET("/articles/{id:[0-9]+}", handler)
//	e.GET("/users/{id:uuid}", handler)
//	e.GET("/events/{day:date}", handler)
//
// The built-in macros:
//
//	uuid     - RFC 4122 UUID in any case (550e8400-e29b-41d4-a716-446655440000)
//	int      - decimal digits only (42)
//	float    - digits with an optional fractional part (3.14, 42, .5)
//	slug     - alphanumeric words joined by single hyphens (my-post-title)
//	alpha    - ASCII letters (hello)
//	alphanum - ASCII letters and digits (abc123)
//	date     - calendar date shaped YYYY-MM-DD (2024-01-15)
//	hex      - hexadecimal digits in any case (deadBEEF)
//	domain   - hostname with RFC 1123 labels (sub.example.com)
//
// A constraint that is not a known macro name compiles as a raw regular
// expression.
//
// # Matching Order
//
// Routes are tried strictly in registration order and the first structural
// match wins. There is no specificity scoring and no backtracking: more
// specific templates must be registered before more general ones when both
// could match the same path.
//
//	e.GET("/user/profile/{id}", profileHandler)
//	e.GET("/user/{id}", userHandler)
//
// With this order, "GET /user/profile/7" always reaches profileHandler.
//
// # Outcomes
//
// Dispatch classifies every call:
//
//	out, err := e.Dispatch(ctx, "GET", "/user/42")
//	switch out.Kind {
//	case dispatch.KindMatched:
//	    // out.Route, out.Params, out.Result are populated.
//	case dispatch.KindNotFound:
//	    // The method has routes, none matched the path.
//	case dispatch.KindMethodNotAllowed:
//	    // No routes are registered for the method at all.
//	}
//
// The method-not-allowed classification depends only on the method table
// being empty, not on whether the path would match under another method.
// Allowed reports which methods match a path so a transport can build the
// Allow header.
//
// # Handlers and Middleware
//
// A Handler receives the dispatch Context and returns an opaque result.
// Middleware runs before the handler; the first middleware error aborts
// the dispatch, the handler is not invoked, and the error is wrapped with
// ErrMiddleware:
//
//	rt, _ := e.POST("/orders", createOrder)
//	rt.Use(func(c *dispatch.Context) error {
//	    return authorize(c.Context(), c.Method(), c.Path())
//	})
//
// Engine-wide middleware registered with Engine.Use runs before route
// middleware. A nil handler or a nil middleware entry is detected at
// dispatch time and fails with ErrInvalidHandler.
//
// # Request Context
//
// Handlers and middleware read the current dispatch through the Context
// argument: Method, Path, Route, and the extracted placeholder values via
// Param, ParamGet, Params, and ParamValues (in template order). Each
// dispatch gets its own Context value; concurrent dispatches never observe
// each other's state. NewTestContext builds a populated Context for
// handler tests.
//
// # Link Generation
//
// Named routes support building concrete paths back from templates:
//
//	e.GET("/user/{id}", handler).Name("user.show")
//
//	link, err := e.Link("user.show", map[string]string{"id": "42"})
//	// link == "/user/42"
//
//	tpl, err := e.Link("user.show", nil)
//	// tpl == "/user/{id}"
//
// Substitution is raw: values are not URL-encoded and not validated
// against placeholder constraints, and placeholders without a value render
// as bare {name} tokens. Generating a link for an unknown name fails with
// ErrRouteNotFound. Duplicate route names are allowed; lookup returns the
// first route registered with the name.
//
// # Fallback Handlers
//
// NotFoundHandler and MethodNotAllowedHandler, when set, run for the
// corresponding outcome with no params and no middleware, and their result
// is carried in Outcome.Result. Their absence is not an error: dispatch
// simply returns the bare outcome.
//
// # Observation
//
// An Observer receives one Stats record per dispatch with the method,
// path, matched route, outcome kind, duration, and error. The
// dispatchhandlers package provides slog- and Prometheus-backed
// implementations.
package dispatch
