package openapi

import (
	"net/http"
	"strconv"
)

// bodySpec accumulates request body metadata before the document is built.
type bodySpec struct {
	contents    map[string]*Schema
	description string
	required    *bool // nil means the OpenAPI default of required
}

// responseSpec accumulates one status key's response metadata. A spec is
// emitted only once declared through Response, ResponseContent or
// DefaultResponse; a description override alone stays latent.
type responseSpec struct {
	contents    map[string]*Schema
	description string
	declared    bool
}

func (r *responseSpec) add(contentType string, schema *Schema) {
	if r.contents == nil {
		r.contents = make(map[string]*Schema)
	}
	r.contents[contentType] = schema
}

func (r *responseSpec) describe(key string) string {
	if r.description != "" {
		return r.description
	}

	return responseDescription(key)
}

// OperationBuilder collects OpenAPI metadata for one route through a fluent
// API and assembles an Operation Object from it.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type OperationBuilder struct {
	id          string
	summary     string
	description string
	tags        []string
	deprecated  bool
	params      []*Parameter

	request   *bodySpec
	responses map[string]*responseSpec
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{}
}

// OperationID overrides the operation ID derived from the route name.
// Useful with Route() attachments, where the engine route may be unnamed.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.id = id
	return b
}

// Summary sets the one-line summary shown in documentation listings.
func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.summary = s
	return b
}

// Description sets the long-form description. CommonMark is allowed.
func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.description = d
	return b
}

// Tags appends grouping tags. Tags used here also surface in the
// document's top-level tag list.
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

// Deprecated flags the operation as deprecated in the published document.
func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.deprecated = true
	return b
}

func (b *OperationBuilder) body() *bodySpec {
	if b.request == nil {
		b.request = &bodySpec{contents: make(map[string]*Schema)}
	}

	return b.request
}

// Request registers an application/json request body schema, shorthand for
// RequestContent("application/json", schema).
func (b *OperationBuilder) Request(schema *Schema) *OperationBuilder {
	return b.RequestContent("application/json", schema)
}

// RequestContent registers a request body schema under the given content
// type. A nil schema publishes the content type without a schema.
func (b *OperationBuilder) RequestContent(contentType string, schema *Schema) *OperationBuilder {
	b.body().contents[contentType] = schema
	return b
}

// RequestDescription sets the request body description.
func (b *OperationBuilder) RequestDescription(desc string) *OperationBuilder {
	b.body().description = desc
	return b
}

// RequestRequired overrides whether the request body is required. Bodies
// are required unless this is called with false.
func (b *OperationBuilder) RequestRequired(required bool) *OperationBuilder {
	b.body().required = &required
	return b
}

func (b *OperationBuilder) response(key string) *responseSpec {
	if b.responses == nil {
		b.responses = make(map[string]*responseSpec)
	}

	r := b.responses[key]
	if r == nil {
		r = &responseSpec{}
		b.responses[key] = r
	}

	return r
}

// Response registers an application/json response schema for a status code.
// A nil schema declares a response without content, as for 204.
func (b *OperationBuilder) Response(statusCode int, schema *Schema) *OperationBuilder {
	r := b.response(strconv.Itoa(statusCode))
	r.declared = true

	if schema == nil {
		r.contents = nil
		return b
	}

	r.add("application/json", schema)

	return b
}

// ResponseContent registers a response schema under the given status code
// and content type.
func (b *OperationBuilder) ResponseContent(statusCode int, contentType string, schema *Schema) *OperationBuilder {
	r := b.response(strconv.Itoa(statusCode))
	r.declared = true
	r.add(contentType, schema)

	return b
}

// DefaultResponse registers an application/json response under the "default"
// status key, which catches status codes without a specific response. A nil
// schema declares it content-free.
func (b *OperationBuilder) DefaultResponse(schema *Schema) *OperationBuilder {
	r := b.response("default")
	r.declared = true

	if schema == nil {
		r.contents = nil
		return b
	}

	r.add("application/json", schema)

	return b
}

// ResponseDescription overrides the description derived from the HTTP status
// text, such as "OK" or "Not Found".
func (b *OperationBuilder) ResponseDescription(statusCode int, desc string) *OperationBuilder {
	b.response(strconv.Itoa(statusCode)).description = desc
	return b
}

// Parameter appends a custom parameter, such as a query or header input.
func (b *OperationBuilder) Parameter(param *Parameter) *OperationBuilder {
	b.params = append(b.params, param)
	return b
}

// mergeParameters folds custom parameters over the auto-generated path
// parameters. OpenAPI keys parameter identity on name plus location, so a
// custom parameter sharing both replaces the generated one; everything else
// is kept, custom entries last.
func mergeParameters(auto, custom []*Parameter) []*Parameter {
	if len(auto)+len(custom) == 0 {
		return nil
	}

	replaced := func(p *Parameter) bool {
		for _, c := range custom {
			if c.Name == p.Name && c.In == p.In {
				return true
			}
		}

		return false
	}

	var merged []*Parameter
	for _, p := range auto {
		if !replaced(p) {
			merged = append(merged, p)
		}
	}

	return append(merged, custom...)
}

// responseDescription derives a response description from its status key.
func responseDescription(key string) string {
	if key == "default" {
		return "Default response"
	}

	if code, err := strconv.Atoi(key); err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}

	return key
}

// buildOperation assembles a fresh Operation Object from the collected
// metadata. Called once per route the builder is attached to, so the result
// never aliases builder state that a second build would see.
func (b *OperationBuilder) buildOperation(operationID string, pathParams []*Parameter) *Operation {
	if b.id != "" {
		operationID = b.id
	}

	return &Operation{
		OperationID: operationID,
		Summary:     b.summary,
		Description: b.description,
		Tags:        b.tags,
		Deprecated:  b.deprecated,
		Parameters:  mergeParameters(pathParams, b.params),
		RequestBody: b.buildRequestBody(),
		Responses:   b.buildResponses(),
	}
}

func (b *OperationBuilder) buildRequestBody() *RequestBody {
	if b.request == nil || len(b.request.contents) == 0 {
		return nil
	}

	return &RequestBody{
		Description: b.request.description,
		Required:    b.request.required == nil || *b.request.required,
		Content:     mediaTypes(b.request.contents),
	}
}

func (b *OperationBuilder) buildResponses() map[string]*Response {
	var responses map[string]*Response

	for key, spec := range b.responses {
		if !spec.declared {
			continue
		}

		if responses == nil {
			responses = make(map[string]*Response, len(b.responses))
		}

		responses[key] = &Response{
			Description: spec.describe(key),
			Content:     mediaTypes(spec.contents),
		}
	}

	return responses
}

// mediaTypes wraps each schema in a MediaType keyed by content type.
func mediaTypes(contents map[string]*Schema) map[string]*MediaType {
	if len(contents) == 0 {
		return nil
	}

	mts := make(map[string]*MediaType, len(contents))
	for ct, schema := range contents {
		mts[ct] = &MediaType{Schema: schema}
	}

	return mts
}
