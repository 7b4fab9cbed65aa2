package dispatch

import "sort"

// table stores compiled routes grouped by uppercased method, preserving
// registration order within each method. The flat list preserves global
// registration order for walking and name lookup.
type table struct {
	byMethod map[string][]*Route
	flat     []*Route
}

func newTable() *table {
	return &table{
		byMethod: make(map[string][]*Route),
	}
}

// add appends the route to its method's sequence. Routes are never
// deduplicated or sorted: registration order is match-attempt order, so
// more specific templates must be registered before more general ones.
func (t *table) add(rt *Route) {
	t.byMethod[rt.method] = append(t.byMethod[rt.method], rt)
	t.flat = append(t.flat, rt)
}

// routes returns the route sequence for an uppercased method, in
// registration order.
func (t *table) routes(method string) []*Route {
	return t.byMethod[method]
}

// lookup returns the first route registered with the given name. Duplicate
// names are allowed; the earliest registration wins.
func (t *table) lookup(name string) (*Route, bool) {
	if name == "" {
		return nil, false
	}

	for _, rt := range t.flat {
		if rt.name == name {
			return rt, true
		}
	}

	return nil, false
}

// allowed returns the methods with at least one route whose pattern
// matches path. The returned slice is sorted alphabetically per
// RFC 9110 Section 10.2.1.
func (t *table) allowed(path string) []string {
	var methods []string
	for method, routes := range t.byMethod {
		for _, rt := range routes {
			if rt.pattern.match(path) {
				methods = append(methods, method)
				break
			}
		}
	}
	sort.Strings(methods)

	return methods
}
