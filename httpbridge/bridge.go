package httpbridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vitalvas/strada/dispatch"
)

// StatusCoder is implemented by handler results and errors that carry their
// own HTTP status code. The bridge uses the returned code instead of the
// default for the outcome.
type StatusCoder interface {
	StatusCode() int
}

// Payload is a handler result written to the response verbatim, bypassing
// JSON encoding. Use it for non-JSON bodies such as HTML or binary content.
type Payload struct {
	// Status is the HTTP status code. Zero means the default for the
	// dispatch outcome (200 for a match).
	Status int

	// ContentType is the value of the Content-Type response header.
	// When empty, no header is set and net/http sniffs the body.
	ContentType string

	// Body is written to the response as-is.
	Body []byte
}

// ErrorRenderer writes an HTTP response for a dispatch error.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Bridge adapts a dispatch.Engine to net/http. It feeds the request method
// and URL path into the engine and renders the outcome as an HTTP response.
type Bridge struct {
	engine      *dispatch.Engine
	logger      *slog.Logger
	renderError ErrorRenderer
	middlewares []Middleware
	tracer      *bridgeTracer
	encodedPath bool
	handler     http.Handler
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for panics recovered by WithRecovery and
// for response encoding failures. When unset, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithEncodedPath makes the bridge dispatch on the percent-encoded request
// path instead of the decoded one. With this option a request for
// "/files/a%2Fb" keeps "a%2Fb" as a single path segment.
func WithEncodedPath() Option {
	return func(b *Bridge) {
		b.encodedPath = true
	}
}

// WithErrorRenderer replaces the default error response. The default maps
// dispatch.ErrInvalidMethod to 400 and *http.MaxBytesError to 413, honors a
// StatusCode method on the error, and writes 500 with a generic body
// otherwise.
func WithErrorRenderer(render ErrorRenderer) Option {
	return func(b *Bridge) {
		b.renderError = render
	}
}

// WithMiddleware appends net/http middleware to the chain wrapped around the
// bridge. Middleware runs in the order the options were given, the first
// being the outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(b *Bridge) {
		b.middlewares = append(b.middlewares, mws...)
	}
}

// New returns an http.Handler that serves requests through the engine.
//
// The outcome of each dispatch maps to a response as follows:
//   - matched: 200 with the JSON-encoded result, or 204 when the result is
//     nil. Results implementing StatusCoder override the code; *Payload
//     results are written verbatim.
//   - no route matched: 404. A result produced by the engine's
//     NotFoundHandler is rendered as the body.
//   - method not registered: 405 with the Allow header listing the methods
//     that do have routes for the path.
//   - dispatch error: rendered by the configured ErrorRenderer.
func New(engine *dispatch.Engine, opts ...Option) *Bridge {
	b := &Bridge{engine: engine}

	for _, opt := range opts {
		opt(b)
	}

	if b.renderError == nil {
		b.renderError = b.defaultErrorRenderer
	}

	b.handler = Chain(http.HandlerFunc(b.serve), b.middlewares...)

	return b
}

// Engine returns the engine the bridge dispatches to.
func (b *Bridge) Engine() *dispatch.Engine {
	return b.engine
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.handler.ServeHTTP(w, r)
}

func (b *Bridge) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if b.encodedPath {
		path = r.URL.EscapedPath()
	}

	ctx := withRequest(r.Context(), r)

	var span *dispatchSpan
	if b.tracer != nil {
		ctx, span = b.tracer.start(ctx, r.Method, path)
	}

	outcome, err := b.engine.Dispatch(ctx, r.Method, path)

	if span != nil {
		span.finish(outcome, err)
	}

	if err != nil {
		b.renderError(w, r, err)
		return
	}

	switch outcome.Kind {
	case dispatch.KindMatched:
		b.writeResult(w, http.StatusOK, outcome.Result)

	case dispatch.KindNotFound:
		if outcome.Result != nil {
			b.writeResult(w, http.StatusNotFound, outcome.Result)
			return
		}

		b.writeStatus(w, http.StatusNotFound)

	case dispatch.KindMethodNotAllowed:
		if allowed := b.engine.Allowed(path); len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}

		if outcome.Result != nil {
			b.writeResult(w, http.StatusMethodNotAllowed, outcome.Result)
			return
		}

		b.writeStatus(w, http.StatusMethodNotAllowed)

	default:
		b.writeStatus(w, http.StatusInternalServerError)
	}
}

// writeResult renders a handler result with the given default status code.
func (b *Bridge) writeResult(w http.ResponseWriter, code int, result any) {
	if p, ok := result.(*Payload); ok {
		b.writePayload(w, code, p)
		return
	}

	if sc, ok := result.(StatusCoder); ok {
		code = sc.StatusCode()
	}

	if result == nil || code == http.StatusNoContent {
		if result == nil && code == http.StatusOK {
			code = http.StatusNoContent
		}

		w.WriteHeader(code)
		return
	}

	b.writeJSON(w, code, result)
}

func (b *Bridge) writePayload(w http.ResponseWriter, code int, p *Payload) {
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}

	if p.Status != 0 {
		code = p.Status
	}

	w.WriteHeader(code)
	w.Write(p.Body)
}

// statusMessage is the default body for responses the bridge generates
// itself, such as 404 and 405.
type statusMessage struct {
	Message string `json:"message"`
}

func (b *Bridge) writeStatus(w http.ResponseWriter, code int) {
	b.writeJSON(w, code, statusMessage{Message: http.StatusText(code)})
}

// writeJSON encodes v into a buffer before touching the response so an
// encoding failure can still produce a clean 500.
func (b *Bridge) writeJSON(w http.ResponseWriter, code int, v any) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(v); err != nil {
		if b.logger != nil {
			b.logger.Error("httpbridge: response encoding failed", slog.Any("error", err))
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body.Bytes())
}

// defaultErrorRenderer maps dispatch errors to responses. Errors carrying
// their own status code via StatusCoder are treated as client-facing and
// rendered with their message; everything else stays opaque.
func (b *Bridge) defaultErrorRenderer(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dispatch.ErrInvalidMethod) {
		b.writeStatus(w, http.StatusBadRequest)
		return
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		b.writeStatus(w, http.StatusRequestEntityTooLarge)
		return
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		b.writeJSON(w, sc.StatusCode(), statusMessage{Message: err.Error()})
		return
	}

	if b.logger != nil {
		b.logger.ErrorContext(r.Context(), "httpbridge: dispatch failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	b.writeStatus(w, http.StatusInternalServerError)
}
