package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/strada/dispatch"
	"github.com/vitalvas/strada/httpbridge"
	"gopkg.in/yaml.v3"
)

// HandleConfig configures the document endpoints registered by Handle.
type HandleConfig struct {
	// JSONFilename is the file name of the JSON endpoint. Defaults to
	// "schema.json"; "-" disables the endpoint. A relative name is joined
	// under the base path, an absolute one (leading "/") is served where
	// it points:
	//
	//	"schema.json"   -> <basePath>/schema.json
	//	"/openapi.json" -> /openapi.json
	JSONFilename string

	// YAMLFilename is the file name of the YAML endpoint. Defaults to
	// "schema.yaml"; "-" disables the endpoint. Resolved like JSONFilename.
	YAMLFilename string
}

// orDefault substitutes fallback for an unset filename.
func orDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}

// docPath turns a filename into the route template it is served on. An
// absolute filename stands alone, a relative one lives under the base path.
func docPath(basePath, filename string) string {
	if strings.HasPrefix(filename, "/") {
		return filename
	}

	return basePath + "/" + filename
}

// Handle registers engine routes serving the OpenAPI document under
// basePath, one JSON and one YAML endpoint. A nil cfg uses the defaults:
//
//	if err := spec.Handle(e, "/swagger", nil); err != nil { ... }
//	// GET /swagger/schema.json
//	// GET /swagger/schema.yaml
//
// The document is built on first request and cached for the process
// lifetime, so routes registered after Handle but before the first request
// are still included.
func (s *Spec) Handle(e *dispatch.Engine, basePath string, cfg *HandleConfig) error {
	if cfg == nil {
		cfg = &HandleConfig{}
	}

	basePath = strings.TrimRight(basePath, "/")

	if name := orDefault(cfg.JSONFilename, "schema.json"); name != "-" {
		marshal := func(doc *Document) ([]byte, error) {
			return json.MarshalIndent(doc, "", "  ")
		}

		if err := s.serveDocument(e, docPath(basePath, name), "application/json", marshal); err != nil {
			return err
		}
	}

	if name := orDefault(cfg.YAMLFilename, "schema.yaml"); name != "-" {
		marshal := func(doc *Document) ([]byte, error) {
			return yaml.Marshal(doc)
		}

		if err := s.serveDocument(e, docPath(basePath, name), "application/x-yaml", marshal); err != nil {
			return err
		}
	}

	return nil
}

// serveDocument registers one GET route that serializes the document with
// marshal and serves the bytes verbatim. The build-and-marshal step runs
// once; a panic inside it is captured and reported as the handler error on
// every request.
func (s *Spec) serveDocument(e *dispatch.Engine, path, contentType string, marshal func(*Document) ([]byte, error)) error {
	var (
		buildOnce sync.Once
		body      []byte
		failed    error
	)

	_, err := e.GET(path, func(_ *dispatch.Context) (any, error) {
		buildOnce.Do(func() {
			defer func() {
				if v := recover(); v != nil {
					failed = fmt.Errorf("%v", v)
				}
			}()

			body, failed = marshal(s.Build(e))
		})

		if failed != nil {
			return nil, fmt.Errorf("openapi: serialize document for %s: %w", contentType, failed)
		}

		return &httpbridge.Payload{
			Status:      http.StatusOK,
			ContentType: contentType,
			Body:        body,
		}, nil
	})

	return err
}
