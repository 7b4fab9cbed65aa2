// Package openapi generates OpenAPI v3.1.0 documents from dispatch engine
// route tables.
//
// The package targets the OpenAPI Specification v3.1.0. Schemas are provided
// explicitly as *Schema values; there is no reflection-based generation.
//
// See: https://spec.openapis.org/oas/v3.1.0
//
// # Describing Operations
//
// Create a spec, attach metadata to named routes with Op, and build the
// document:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "User Service", Version: "0.3.0"})
//
//	rt, _ := e.GET("/users/{id:int}", showUser)
//	rt.Name("users.show")
//
//	spec.Op("users.show").
//	    Summary("Show one user").
//	    Tags("users", "public").
//	    Response(http.StatusOK, userSchema)
//
// Use Route to attach metadata to a route directly, which also works for
// unnamed routes:
//
//	rt, _ := e.POST("/users", createUser)
//	spec.Route(rt).
//	    OperationID("createUser").
//	    Summary("Register a user").
//	    Request(createInputSchema).
//	    Response(http.StatusCreated, userSchema)
//
// Routes without an attached builder are excluded from the document, so
// health checks and metrics endpoints stay unpublished.
//
// # Typed Path Parameters
//
// Placeholder macros carry over into the parameter schemas:
//
//	{id:uuid}   becomes type string, format uuid
//	{page:int}  becomes type integer
//	{v:float}   becomes type number
//	{d:date}    becomes type string, format date
//	{h:domain}  becomes type string, format hostname
//
// Raw regexp constraints are published as string parameters carrying the
// pattern, and bare placeholders default to plain strings.
//
// # Document Tags
//
// Every tag named by an operation is collected into the document-level tags
// list, sorted by name. Use AddTag to provide descriptions:
//
//	spec.AddTag(openapi.Tag{Name: "users", Description: "User management"})
//
// User-defined tags take precedence over auto-collected tags, and tags defined
// via AddTag but not used by any operation are still included.
//
// # Serving the Document
//
// Handle registers the document endpoints under a base path on the engine.
// The config parameter is optional; pass nil for defaults:
//
//	if err := spec.Handle(e, "/swagger", nil); err != nil { ... }
//
// This registers two routes:
//
//	/swagger/schema.json - OpenAPI document as JSON
//	/swagger/schema.yaml - OpenAPI document as YAML
//
// Both handlers return *httpbridge.Payload values, so the engine must be
// served through an httpbridge.Bridge for the content types to apply. The
// document is built once on first request using sync.Once.
//
// # Building Directly
//
// Build walks the engine's route table and assembles a complete *Document.
// Handle calls it for you, but nothing stops other consumers:
//
//	doc := spec.Build(e)
//	raw, _ := json.Marshal(doc)
package openapi
