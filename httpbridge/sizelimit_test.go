package httpbridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/strada/dispatch"
)

func newEchoBridge(t *testing.T, maxBytes int64) *Bridge {
	t.Helper()

	e := dispatch.New()
	_, err := e.POST("/notes", func(c *dispatch.Context) (any, error) {
		var payload struct {
			Text string `json:"text"`
		}

		if err := BindJSON(RequestFrom(c.Context()), &payload); err != nil {
			return nil, err
		}

		return payload, nil
	})
	require.NoError(t, err)

	mw, err := RequestSizeLimit(RequestSizeLimitConfig{MaxBytes: maxBytes})
	require.NoError(t, err)

	return New(e, WithMiddleware(mw))
}

func TestRequestSizeLimit(t *testing.T) {
	t.Run("rejects a non-positive limit", func(t *testing.T) {
		for _, maxBytes := range []int64{0, -1} {
			mw, err := RequestSizeLimit(RequestSizeLimitConfig{MaxBytes: maxBytes})
			assert.Nil(t, mw)
			assert.ErrorIs(t, err, ErrInvalidMaxBytes)
		}
	})

	t.Run("bodies within the limit pass through", func(t *testing.T) {
		b := newEchoBridge(t, 128)

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(`{"text":"hi"}`)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"text":"hi"}`, w.Body.String())
	})

	t.Run("oversized bodies render as 413", func(t *testing.T) {
		b := newEchoBridge(t, 16)

		body := `{"text":"` + strings.Repeat("x", 64) + `"}`

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), http.StatusText(http.StatusRequestEntityTooLarge))
	})
}
