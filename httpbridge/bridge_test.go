package httpbridge

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/strada/dispatch"
)

type userDoc struct {
	ID string `json:"id"`
}

type createdDoc struct {
	ID string `json:"id"`
}

func (createdDoc) StatusCode() int { return http.StatusCreated }

type apiError struct {
	code int
	msg  string
}

func (e apiError) Error() string   { return e.msg }
func (e apiError) StatusCode() int { return e.code }

func newUserEngine(t *testing.T) *dispatch.Engine {
	t.Helper()

	e := dispatch.New()

	_, err := e.GET("/user/{id:int}", func(c *dispatch.Context) (any, error) {
		return userDoc{ID: c.Param("id")}, nil
	})
	require.NoError(t, err)

	return e
}

func TestBridgeOutcomes(t *testing.T) {
	t.Run("matched result is JSON with 200", func(t *testing.T) {
		b := New(newUserEngine(t))

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":"42"}`, w.Body.String())
	})

	t.Run("nil result is 204", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.DELETE("/user/{id}", func(_ *dispatch.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/user/42", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("result picks its own status code", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.POST("/user", func(_ *dispatch.Context) (any, error) {
			return createdDoc{ID: "7"}, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":"7"}`, w.Body.String())
	})

	t.Run("payload written verbatim", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/page", func(_ *dispatch.Context) (any, error) {
			return &Payload{
				Status:      http.StatusTeapot,
				ContentType: "text/plain; charset=utf-8",
				Body:        []byte("short and stout"),
			}, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "short and stout", w.Body.String())
	})

	t.Run("payload without status uses outcome default", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/page", func(_ *dispatch.Context) (any, error) {
			return &Payload{Body: []byte("ok")}, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("unmatched path is 404", func(t *testing.T) {
		b := New(newUserEngine(t))

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Not Found"}`, w.Body.String())
	})

	t.Run("not found fallback result keeps 404", func(t *testing.T) {
		e := newUserEngine(t)
		e.NotFoundHandler = func(_ *dispatch.Context) (any, error) {
			return map[string]string{"hint": "check the path"}, nil
		}

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"hint":"check the path"}`, w.Body.String())
	})

	t.Run("method without routes is 405 with allow", func(t *testing.T) {
		e := newUserEngine(t)
		_, err := e.DELETE("/user/{id:int}", func(_ *dispatch.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user/42", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "DELETE, GET", w.Header().Get("Allow"))
		assert.JSONEq(t, `{"message":"Method Not Allowed"}`, w.Body.String())
	})

	t.Run("empty method is 400", func(t *testing.T) {
		b := New(newUserEngine(t))

		req := httptest.NewRequest(http.MethodGet, "/user/42", nil)
		req.Method = ""

		w := httptest.NewRecorder()
		b.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("handler error is opaque 500", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/boom", func(_ *dispatch.Context) (any, error) {
			return nil, errors.New("db connection refused")
		})
		require.NoError(t, err)

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		w := httptest.NewRecorder()
		New(e, WithLogger(logger)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db connection refused")
		assert.Contains(t, buf.String(), "db connection refused")
	})

	t.Run("error with status code is client facing", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/forbidden", func(_ *dispatch.Context) (any, error) {
			return nil, apiError{code: http.StatusForbidden, msg: "not yours"}
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forbidden", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"message":"not yours"}`, w.Body.String())
	})

	t.Run("middleware error keeps the cause status code", func(t *testing.T) {
		e := newUserEngine(t)
		e.Use(func(_ *dispatch.Context) error {
			return apiError{code: http.StatusUnauthorized, msg: "no token"}
		})

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/42", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("custom error renderer", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/boom", func(_ *dispatch.Context) (any, error) {
			return nil, errors.New("kaboom")
		})
		require.NoError(t, err)

		b := New(e, WithErrorRenderer(func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, "custom: "+err.Error(), http.StatusBadGateway)
		}))

		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "custom: kaboom")
	})

	t.Run("engine accessor", func(t *testing.T) {
		e := dispatch.New()
		assert.Same(t, e, New(e).Engine())
	})
}

func TestBridgeEncodedPath(t *testing.T) {
	newFilesEngine := func(t *testing.T) *dispatch.Engine {
		t.Helper()

		e := dispatch.New()
		_, err := e.GET("/files/{name}", func(c *dispatch.Context) (any, error) {
			return map[string]string{"name": c.Param("name")}, nil
		})
		require.NoError(t, err)

		return e
	}

	t.Run("decoded path by default", func(t *testing.T) {
		w := httptest.NewRecorder()
		New(newFilesEngine(t)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/a%2Fb", nil))

		// The decoded path has two segments under /files and does not match.
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("encoded path keeps escapes as one segment", func(t *testing.T) {
		w := httptest.NewRecorder()
		b := New(newFilesEngine(t), WithEncodedPath())
		b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/a%2Fb", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"a%2Fb"}`, w.Body.String())
	})
}

func TestBridgeRequestAccess(t *testing.T) {
	t.Run("handler reads the raw request", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.GET("/whoami", func(c *dispatch.Context) (any, error) {
			r := RequestFrom(c.Context())
			require.NotNil(t, r)

			return map[string]string{"agent": r.Header.Get("User-Agent")}, nil
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("User-Agent", "strada-test")

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"agent":"strada-test"}`, w.Body.String())
	})

	t.Run("handler binds the JSON body", func(t *testing.T) {
		type input struct {
			Name string `json:"name"`
		}

		e := dispatch.New()
		_, err := e.POST("/user", func(c *dispatch.Context) (any, error) {
			var in input
			if err := BindJSON(RequestFrom(c.Context()), &in); err != nil {
				return nil, apiError{code: http.StatusBadRequest, msg: err.Error()}
			}

			return userDoc{ID: in.Name}, nil
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"name":"ada"}`))

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"ada"}`, w.Body.String())
	})

	t.Run("malformed body surfaces as 400", func(t *testing.T) {
		e := dispatch.New()
		_, err := e.POST("/user", func(c *dispatch.Context) (any, error) {
			var in struct{}
			if err := BindJSON(RequestFrom(c.Context()), &in); err != nil {
				return nil, apiError{code: http.StatusBadRequest, msg: "invalid body"}
			}

			return nil, nil
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{broken`))

		w := httptest.NewRecorder()
		New(e).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
