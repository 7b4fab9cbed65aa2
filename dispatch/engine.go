package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Kind classifies the result of a dispatch.
type Kind int

const (
	// KindInvalid is the zero Kind, seen only when dispatch fails before
	// the route table is consulted.
	KindInvalid Kind = iota

	// KindMatched means a route matched and its handler chain ran.
	KindMatched

	// KindNotFound means the method has routes but none matched the path.
	// Corresponds to 404 Not Found per RFC 9110 Section 15.5.5.
	KindNotFound

	// KindMethodNotAllowed means no routes are registered for the method.
	// Corresponds to 405 Method Not Allowed per RFC 9110 Section 15.5.6.
	KindMethodNotAllowed
)

// String returns a stable lowercase token for the kind, suitable for logs
// and metric labels.
func (k Kind) String() string {
	switch k {
	case KindMatched:
		return "matched"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "invalid"
	}
}

// Outcome is the structured result of one dispatch call. The engine never
// writes anything to a wire: the transport collaborator decides what
// status and body correspond to each kind.
type Outcome struct {
	// Kind is the match classification.
	Kind Kind

	// Route is the matched route. Nil unless Kind is KindMatched.
	Route *Route

	// Params holds the extracted placeholder values keyed by name. Values
	// are raw path substrings; no URL decoding happens at this layer.
	Params map[string]string

	// Result is the handler's return value. For not-found and
	// method-not-allowed outcomes it carries the configured fallback
	// handler's result, if any.
	Result any
}

// WalkFunc is called for each route visited by Walk.
type WalkFunc func(*Route) error

// Engine registers routes and dispatches (method, path) pairs to their
// handlers.
//
// Registration is not safe for concurrent use and is expected to happen
// once at startup; after the first Dispatch call the route table must be
// treated as read-only. Dispatch itself is safe for unlimited concurrency.
type Engine struct {
	// NotFoundHandler is invoked when the method has routes but none
	// matched the path. It runs with no params and no middleware. If nil,
	// dispatch returns a bare not-found outcome.
	NotFoundHandler Handler

	// MethodNotAllowedHandler is invoked when no routes are registered
	// for the request method. It runs with no params and no middleware.
	// If nil, dispatch returns a bare method-not-allowed outcome. The
	// Allow header on 405 responses is the transport's job, built from
	// Allowed.
	MethodNotAllowedHandler Handler

	// Logger records middleware and handler failures at dispatch time.
	// If nil, failures are still returned to the caller but not logged.
	// The logger must be safe for concurrent use.
	Logger *slog.Logger

	// Observer, if set, receives a Stats record after every dispatch.
	// It runs on the dispatching goroutine and must be safe for
	// concurrent use.
	Observer Observer

	table       *table
	middlewares []Middleware
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{
		table: newTable(),
	}
}

// Handle registers a route for the given method and path template and
// returns it for fluent configuration:
//
//	rt, err := e.Handle("GET", "/user/{id}", showUser)
//	if err != nil { ... }
//	rt.Name("user.show").Use(authMiddleware)
//
// Template and method faults surface immediately. The handler is validated
// lazily: a nil handler registers fine and fails with ErrInvalidHandler
// only when the route is matched.
func (e *Engine) Handle(method, tpl string, h Handler) (*Route, error) {
	if method == "" {
		return nil, fmt.Errorf("dispatch: empty method registering %q: %w", tpl, ErrInvalidMethod)
	}

	p, err := compilePattern(tpl)
	if err != nil {
		return nil, err
	}

	rt := &Route{
		method:   strings.ToUpper(method),
		template: tpl,
		pattern:  p,
		handler:  h,
	}
	e.table.add(rt)

	return rt, nil
}

// GET registers a route for the GET method.
func (e *Engine) GET(tpl string, h Handler) (*Route, error) {
	return e.Handle("GET", tpl, h)
}

// POST registers a route for the POST method.
func (e *Engine) POST(tpl string, h Handler) (*Route, error) {
	return e.Handle("POST", tpl, h)
}

// PUT registers a route for the PUT method.
func (e *Engine) PUT(tpl string, h Handler) (*Route, error) {
	return e.Handle("PUT", tpl, h)
}

// PATCH registers a route for the PATCH method.
func (e *Engine) PATCH(tpl string, h Handler) (*Route, error) {
	return e.Handle("PATCH", tpl, h)
}

// DELETE registers a route for the DELETE method.
func (e *Engine) DELETE(tpl string, h Handler) (*Route, error) {
	return e.Handle("DELETE", tpl, h)
}

// OPTIONS registers a route for the OPTIONS method.
func (e *Engine) OPTIONS(tpl string, h Handler) (*Route, error) {
	return e.Handle("OPTIONS", tpl, h)
}

// HEAD registers a route for the HEAD method.
func (e *Engine) HEAD(tpl string, h Handler) (*Route, error) {
	return e.Handle("HEAD", tpl, h)
}

// Use appends engine-wide middleware, run before route middleware on every
// matched route. Fallback handlers run without middleware.
func (e *Engine) Use(mw ...Middleware) {
	e.middlewares = append(e.middlewares, mw...)
}

// Dispatch resolves a (method, path) pair against the route table and runs
// the matched route's middleware chain and handler.
//
// The method is matched case-insensitively; an empty method fails with
// ErrInvalidMethod. When the method has no registered routes at all the
// outcome is KindMethodNotAllowed; when it has routes but none matched the
// path the outcome is KindNotFound. Routes are tried strictly in
// registration order and the first structural match wins.
//
// Middleware and handler errors abort the dispatch, are logged on Logger,
// and propagate to the caller; the outcome still reports the matched route
// and params so the transport can respond coherently.
func (e *Engine) Dispatch(ctx context.Context, method, path string) (Outcome, error) {
	if e.Observer == nil {
		return e.dispatch(ctx, method, path)
	}

	start := time.Now()
	out, err := e.dispatch(ctx, method, path)
	e.Observer.ObserveDispatch(Stats{
		Method:   strings.ToUpper(method),
		Path:     path,
		Route:    out.Route,
		Kind:     out.Kind,
		Duration: time.Since(start),
		Err:      err,
	})

	return out, err
}

func (e *Engine) dispatch(ctx context.Context, method, path string) (Outcome, error) {
	if method == "" {
		return Outcome{}, fmt.Errorf("dispatch: empty request method for %q: %w", path, ErrInvalidMethod)
	}
	method = strings.ToUpper(method)

	routes := e.table.routes(method)
	if len(routes) == 0 {
		out := Outcome{Kind: KindMethodNotAllowed}
		if e.MethodNotAllowedHandler == nil {
			return out, nil
		}

		res, err := e.MethodNotAllowedHandler(newContext(ctx, method, path, nil, nil, nil))
		out.Result = res
		if err != nil {
			e.logError(ctx, "method not allowed handler failed", method, path, err)
		}

		return out, err
	}

	for _, rt := range routes {
		params, ordered, ok := rt.pattern.capture(path)
		if !ok {
			continue
		}

		out := Outcome{Kind: KindMatched, Route: rt, Params: params}
		c := newContext(ctx, method, path, rt, params, ordered)

		if err := e.runMiddleware(c, rt); err != nil {
			e.logError(ctx, "dispatch aborted", method, path, err)
			return out, err
		}

		if rt.handler == nil {
			err := fmt.Errorf("dispatch: route %q has no invocable handler: %w", rt.template, ErrInvalidHandler)
			e.logError(ctx, "dispatch aborted", method, path, err)
			return out, err
		}

		res, err := rt.handler(c)
		out.Result = res
		if err != nil {
			e.logError(ctx, "handler failed", method, path, err)
		}

		return out, err
	}

	out := Outcome{Kind: KindNotFound}
	if e.NotFoundHandler == nil {
		return out, nil
	}

	res, err := e.NotFoundHandler(newContext(ctx, method, path, nil, nil, nil))
	out.Result = res
	if err != nil {
		e.logError(ctx, "not found handler failed", method, path, err)
	}

	return out, err
}

// runMiddleware executes engine-wide middleware then route middleware,
// stopping at the first failure. A nil middleware entry is an
// ErrInvalidHandler fault; a middleware error is wrapped with
// ErrMiddleware, keeping the original error reachable through errors.Is.
func (e *Engine) runMiddleware(c *Context, rt *Route) error {
	for _, chain := range [2][]Middleware{e.middlewares, rt.middlewares} {
		for _, mw := range chain {
			if mw == nil {
				return fmt.Errorf("dispatch: route %q has a nil middleware: %w", rt.template, ErrInvalidHandler)
			}
			if err := mw(c); err != nil {
				return fmt.Errorf("dispatch: route %q middleware: %w: %w", rt.template, ErrMiddleware, err)
			}
		}
	}

	return nil
}

func (e *Engine) logError(ctx context.Context, msg, method, path string, err error) {
	if e.Logger == nil {
		return
	}

	e.Logger.ErrorContext(ctx, msg,
		slog.String("method", method),
		slog.String("path", path),
		slog.Any("error", err),
	)
}

// Link builds a concrete path for the route registered under name. Unknown
// names fail with ErrRouteNotFound. See Route.Link for the substitution
// rules.
func (e *Engine) Link(name string, params map[string]string) (string, error) {
	rt, ok := e.table.lookup(name)
	if !ok {
		return "", fmt.Errorf("dispatch: no route named %q: %w", name, ErrRouteNotFound)
	}

	return rt.Link(params), nil
}

// Lookup returns the first route registered with the given name. Duplicate
// names are not rejected at registration; the earliest registration wins.
func (e *Engine) Lookup(name string) (*Route, bool) {
	return e.table.lookup(name)
}

// Routes returns the routes registered for a method, in registration
// order. The method is matched case-insensitively.
func (e *Engine) Routes(method string) []*Route {
	return slices.Clone(e.table.routes(strings.ToUpper(method)))
}

// Walk calls fn for every registered route in registration order across
// all methods. A non-nil error stops the walk and propagates to the
// caller.
func (e *Engine) Walk(fn WalkFunc) error {
	for _, rt := range e.table.flat {
		if err := fn(rt); err != nil {
			return err
		}
	}

	return nil
}

// Allowed returns the sorted set of methods with at least one route whose
// pattern matches path. Transports use it to build the Allow header on
// 405 responses per RFC 9110 Section 10.2.1.
func (e *Engine) Allowed(path string) []string {
	return e.table.allowed(path)
}
