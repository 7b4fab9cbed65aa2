package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoute(t *testing.T, method, tpl string) *Route {
	t.Helper()

	e := New()
	rt, err := e.Handle(method, tpl, echoParams)
	require.NoError(t, err)

	return rt
}

func TestRouteName(t *testing.T) {
	t.Run("sets and returns the name", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/user/{id}")
		assert.Empty(t, rt.GetName())

		rt.Name("user.show")
		assert.Equal(t, "user.show", rt.GetName())
	})

	t.Run("renaming replaces the previous name", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/user/{id}")
		rt.Name("old").Name("new")
		assert.Equal(t, "new", rt.GetName())
	})
}

func TestRouteAccessors(t *testing.T) {
	t.Run("reports method template and var names", func(t *testing.T) {
		rt := newTestRoute(t, "post", "/articles/{category}/{id}")

		assert.Equal(t, "POST", rt.Method())
		assert.Equal(t, "/articles/{category}/{id}", rt.Template())
		assert.Equal(t, []string{"category", "id"}, rt.VarNames())
	})

	t.Run("var names are a copy", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/user/{id}")

		names := rt.VarNames()
		names[0] = "mutated"
		assert.Equal(t, []string{"id"}, rt.VarNames())
	})
}

func TestRouteLink(t *testing.T) {
	t.Run("substitutes params into the template", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/articles/{category}/{id}")

		got := rt.Link(map[string]string{"category": "tech", "id": "42"})
		assert.Equal(t, "/articles/tech/42", got)
	})

	t.Run("partial substitution keeps missing placeholders", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/articles/{category}/{id}")

		got := rt.Link(map[string]string{"id": "42"})
		assert.Equal(t, "/articles/{category}/42", got)
	})

	t.Run("nil params returns the template form", func(t *testing.T) {
		rt := newTestRoute(t, "GET", "/user/{id:int}")
		assert.Equal(t, "/user/{id}", rt.Link(nil))
	})
}
