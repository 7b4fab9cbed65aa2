package httpbridge

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTrailingData is returned by the binders when the request body holds
// more than one value.
var ErrTrailingData = errors.New("httpbridge: unexpected trailing data in request body")

type requestKey struct{}

// withRequest stores the request in the context so engine handlers can reach
// it through RequestFrom.
func withRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFrom returns the *http.Request the bridge stored in the context.
// Returns nil when the dispatch did not come through a Bridge.
func RequestFrom(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(requestKey{}).(*http.Request); ok {
		return r
	}

	return nil
}

// BindJSON decodes a single JSON value from the request body into v.
// Fields in the body that v has no place for fail the decode unless
// allowUnknownFields is set. A second value after the first fails with
// ErrTrailingData.
func BindJSON(r *http.Request, v any, allowUnknownFields ...bool) error {
	dec := json.NewDecoder(r.Body)

	if loose := len(allowUnknownFields) > 0 && allowUnknownFields[0]; !loose {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("httpbridge: decode json body: %w", err)
	}

	return ensureEOF(dec.Decode(&struct{}{}))
}

// BindXML decodes a single XML document from the request body into v.
// A second document after the first fails with ErrTrailingData.
func BindXML(r *http.Request, v any) error {
	dec := xml.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("httpbridge: decode xml body: %w", err)
	}

	return ensureEOF(dec.Decode(&struct{}{}))
}

// ensureEOF checks the probe decode that follows a successful bind: a clean
// EOF means the body held exactly one value.
func ensureEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return ErrTrailingData
}
