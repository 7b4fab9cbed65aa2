package httpbridge

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/strada/dispatch"
)

// The global tracer provider defaults to a no-op implementation, so these
// tests verify the bridge behaves identically with tracing enabled rather
// than inspecting span contents.
func TestWithTracing(t *testing.T) {
	newTracedBridge := func(t *testing.T) *Bridge {
		t.Helper()

		e := dispatch.New()
		_, err := e.GET("/user/{id:int}", func(c *dispatch.Context) (any, error) {
			return map[string]string{"id": c.Param("id")}, nil
		})
		require.NoError(t, err)

		return New(e, WithTracing("strada-test"))
	}

	t.Run("matched dispatch is unaffected", func(t *testing.T) {
		b := newTracedBridge(t)

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"42"}`, w.Body.String())
	})

	t.Run("unmatched dispatch is unaffected", func(t *testing.T) {
		b := newTracedBridge(t)

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("request stays reachable from handlers", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/check", func(c *dispatch.Context) (any, error) {
			require.NotNil(t, RequestFrom(c.Context()))
			return nil, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e, WithTracing("")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/check", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
