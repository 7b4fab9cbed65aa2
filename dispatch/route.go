package dispatch

import "slices"

// Handler is the invocable bound to a route. It receives the dispatch
// Context and returns an opaque result that the transport collaborator
// turns into a wire response.
type Handler func(*Context) (any, error)

// Middleware runs before the route handler. A non-nil error aborts the
// dispatch and the handler is not invoked.
type Middleware func(*Context) error

// Route stores a single registration: a method, a compiled path template,
// the handler with its middleware chain, and an optional name for link
// generation. Routes are created by Engine.Handle and configured fluently
// right after; they must be treated as immutable once dispatching starts.
type Route struct {
	method      string
	template    string
	pattern     *pattern
	handler     Handler
	middlewares []Middleware
	name        string
}

// Name sets the route name used for link generation. Calling Name again
// replaces the previous name.
func (r *Route) Name(name string) *Route {
	r.name = name
	return r
}

// GetName returns the route name, if any.
func (r *Route) GetName() string {
	return r.name
}

// Use appends middleware to the route's chain. Route middleware runs after
// engine-wide middleware, in the order it was added.
func (r *Route) Use(mw ...Middleware) *Route {
	r.middlewares = append(r.middlewares, mw...)
	return r
}

// Method returns the uppercased request method the route was registered for.
func (r *Route) Method() string {
	return r.method
}

// Template returns the original path template.
func (r *Route) Template() string {
	return r.template
}

// VarNames returns the placeholder names in template order.
func (r *Route) VarNames() []string {
	return slices.Clone(r.pattern.varsN)
}

// Link renders a concrete path from the route's template. Placeholders
// present in params are substituted with the raw value; absent placeholders
// render as bare {name} tokens, so a nil params returns the template form
// with constraints stripped.
//
// Values are substituted without URL encoding or validation: a value
// containing "/" or brace characters produces a path that will not
// round-trip through matching. Callers that need encoding must apply it
// before substitution.
func (r *Route) Link(params map[string]string) string {
	return r.pattern.link(params)
}
