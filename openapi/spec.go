package openapi

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/vitalvas/strada/dispatch"
)

// macroSchemas maps route template macros to the schema their path
// parameters publish.
var macroSchemas = map[string]Schema{
	"uuid":     {Type: "string", Format: "uuid"},
	"int":      {Type: "integer"},
	"float":    {Type: "number"},
	"slug":     {Type: "string"},
	"alpha":    {Type: "string"},
	"alphanum": {Type: "string"},
	"date":     {Type: "string", Format: "date"},
	"hex":      {Type: "string"},
	"domain":   {Type: "string", Format: "hostname"},
}

// placeholderRegexp matches template placeholders in the form {name} or
// {name:constraint}.
var placeholderRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// Spec collects OpenAPI metadata for engine routes and builds a complete
// Document.
type Spec struct {
	info       Info
	servers    []Server
	tags       []Tag
	operations map[string]*OperationBuilder          // attached by route name (Op)
	routeOps   map[*dispatch.Route]*OperationBuilder // attached by route pointer (Route)
}

// NewSpec starts a document builder carrying the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:       info,
		operations: make(map[string]*OperationBuilder),
		routeOps:   make(map[*dispatch.Route]*OperationBuilder),
	}
}

// AddServer appends a server entry to the published document.
func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

// AddTag adds a user-defined tag with an optional description.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// Op returns the operation builder for the route registered under routeName,
// creating one on first use.
func (s *Spec) Op(routeName string) *OperationBuilder {
	b, ok := s.operations[routeName]
	if !ok {
		b = newOperationBuilder()
		s.operations[routeName] = b
	}

	return b
}

// Route attaches an OperationBuilder to an existing engine route. Unlike Op,
// this works for unnamed routes and disambiguates routes sharing a name.
func (s *Spec) Route(route *dispatch.Route) *OperationBuilder {
	b := newOperationBuilder()
	s.routeOps[route] = b
	return b
}

// Build walks the engine's route table and assembles a complete OpenAPI
// Document. Routes without an attached OperationBuilder are skipped, so
// infrastructure endpoints stay out of the published document.
func (s *Spec) Build(e *dispatch.Engine) *Document {
	doc := &Document{
		OpenAPI: "3.1.0",
		Info:    s.info,
		Servers: s.servers,
		Paths:   make(map[string]*PathItem),
	}

	_ = e.Walk(func(route *dispatch.Route) error {
		builder := s.builderFor(route)
		if builder == nil {
			return nil
		}

		path, pathParams := parsePath(route.Template())

		item := doc.Paths[path]
		if item == nil {
			item = &PathItem{}
			doc.Paths[path] = item
		}

		item.set(route.Method(), builder.buildOperation(route.GetName(), pathParams))

		return nil
	})

	doc.Tags = s.mergeTags(doc.Paths)

	return doc
}

// builderFor resolves the builder attached to a route, preferring a pointer
// attachment over a name attachment.
func (s *Spec) builderFor(route *dispatch.Route) *OperationBuilder {
	if b, ok := s.routeOps[route]; ok {
		return b
	}

	if b, ok := s.operations[route.GetName()]; ok {
		return b
	}

	return nil
}

// mergeTags merges tag names referenced by operations with user-defined
// tags. A user-defined tag supplies the description for a referenced name
// and is included even when no operation references it. The result is
// sorted by name.
func (s *Spec) mergeTags(paths map[string]*PathItem) []Tag {
	defined := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		defined[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var merged []Tag

	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true

		if tag, ok := defined[name]; ok {
			merged = append(merged, tag)
			return
		}

		merged = append(merged, Tag{Name: name})
	}

	for _, item := range paths {
		for _, op := range item.operations() {
			for _, name := range op.Tags {
				add(name)
			}
		}
	}

	for _, tag := range s.tags {
		add(tag.Name)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})

	return merged
}

// set places an operation on the path item field matching the method.
func (p *PathItem) set(method string, op *Operation) {
	switch method {
	case http.MethodGet:
		p.Get = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPost:
		p.Post = op
	case http.MethodDelete:
		p.Delete = op
	case http.MethodOptions:
		p.Options = op
	case http.MethodHead:
		p.Head = op
	case http.MethodPatch:
		p.Patch = op
	case http.MethodTrace:
		p.Trace = op
	}
}

// operations returns the item's populated operations.
func (p *PathItem) operations() []*Operation {
	var ops []*Operation

	for _, op := range []*Operation{p.Get, p.Put, p.Post, p.Delete, p.Options, p.Head, p.Patch, p.Trace} {
		if op != nil {
			ops = append(ops, op)
		}
	}

	return ops
}

// parsePath converts a route template to OpenAPI path syntax and derives its
// parameter list. Macro constraints publish typed schemas; raw regexp
// constraints are published as string parameters carrying the pattern.
func parsePath(tpl string) (string, []*Parameter) {
	var params []*Parameter

	path := placeholderRegexp.ReplaceAllStringFunc(tpl, func(match string) string {
		name, constraint, _ := strings.Cut(match[1:len(match)-1], ":")
		params = append(params, pathParam(name, constraint))
		return "{" + name + "}"
	})

	return path, params
}

// pathParam builds the parameter object for a single placeholder.
func pathParam(name, constraint string) *Parameter {
	param := &Parameter{Name: name, In: "path", Required: true}

	if macro, ok := macroSchemas[constraint]; ok {
		param.Schema = &macro
	} else if constraint != "" {
		param.Schema = &Schema{Type: "string", Pattern: constraint}
	} else {
		param.Schema = &Schema{Type: "string"}
	}

	return param
}
