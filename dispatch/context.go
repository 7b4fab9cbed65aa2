package dispatch

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Context is the snapshot of the request being dispatched: method, path,
// the matched route, and the extracted placeholder values. The dispatcher
// creates one Context per call, populates it once before middleware and
// handler execution, and never shares it between concurrent dispatches.
//
// Handler and middleware code should treat the Context as read-only;
// WithValue is the only supported mutation.
type Context struct {
	ctx     context.Context
	method  string
	path    string
	route   *Route
	params  map[string]string
	ordered []string
}

// newContext builds the per-dispatch context. Fallback handler invocations
// pass a nil route and nil params.
func newContext(ctx context.Context, method, path string, route *Route, params map[string]string, ordered []string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Context{
		ctx:     ctx,
		method:  method,
		path:    path,
		route:   route,
		params:  params,
		ordered: ordered,
	}
}

// Context returns the context.Context the dispatch was started with,
// including any values attached later via WithValue.
func (c *Context) Context() context.Context {
	return c.ctx
}

// WithValue attaches a value to the dispatch context for later retrieval
// by middleware or the handler.
func (c *Context) WithValue(key, val any) {
	c.ctx = context.WithValue(c.ctx, key, val)
}

// Method returns the request method, normalized to uppercase.
func (c *Context) Method() string {
	return c.method
}

// Path returns the request path as given to Dispatch.
func (c *Context) Path() string {
	return c.path
}

// Route returns the matched route. It is nil when the Context belongs to a
// not-found or method-not-allowed fallback invocation.
func (c *Context) Route() *Route {
	return c.route
}

// Param returns the value of a single placeholder by name, or "" when the
// placeholder does not exist.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// ParamGet returns the value of a single placeholder by name and a boolean
// indicating whether the placeholder exists.
func (c *Context) ParamGet(name string) (string, bool) {
	val, exists := c.params[name]
	return val, exists
}

// Params returns a copy of all placeholder values keyed by name, or nil
// when the matched template has no placeholders.
func (c *Context) Params() map[string]string {
	if c.params == nil {
		return nil
	}

	return maps.Clone(c.params)
}

// ParamValues returns the placeholder values in template order.
func (c *Context) ParamValues() []string {
	return slices.Clone(c.ordered)
}

// NewTestContext returns a Context populated with the given values,
// intended for testing handlers and middleware without an engine. The
// placeholder order follows the sorted parameter names.
func NewTestContext(method, path string, params map[string]string) *Context {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]string, 0, len(params))
	for _, name := range names {
		ordered = append(ordered, params[name])
	}

	return newContext(context.Background(), strings.ToUpper(method), path, nil, params, ordered)
}
