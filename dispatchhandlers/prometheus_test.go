package dispatchhandlers

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/strada/dispatch"
)

func TestPrometheusObserver(t *testing.T) {
	t.Run("counts dispatches by method route and outcome", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		obs := NewPrometheusObserver(WithRegistry(registry), WithNamespace("test"))

		e := dispatch.New()
		e.Observer = obs
		_, err := e.GET("/user/{id}", func(_ *dispatch.Context) (any, error) {
			return "ok", nil
		})
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = e.Dispatch(context.Background(), "GET", "/user/42")
			require.NoError(t, err)
		}
		_, err = e.Dispatch(context.Background(), "GET", "/missing")
		require.NoError(t, err)
		_, err = e.Dispatch(context.Background(), "POST", "/user/42")
		require.NoError(t, err)

		matched := obs.dispatchesTotal.WithLabelValues("GET", "/user/{id}", "matched")
		assert.InDelta(t, 3, testutil.ToFloat64(matched), 0.001)

		notFound := obs.dispatchesTotal.WithLabelValues("GET", "unmatched", "not_found")
		assert.InDelta(t, 1, testutil.ToFloat64(notFound), 0.001)

		denied := obs.dispatchesTotal.WithLabelValues("POST", "unmatched", "method_not_allowed")
		assert.InDelta(t, 1, testutil.ToFloat64(denied), 0.001)
	})

	t.Run("observes durations per route", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		obs := NewPrometheusObserver(WithRegistry(registry), WithNamespace("test"))

		e := dispatch.New()
		e.Observer = obs
		_, err := e.GET("/user/{id}", func(_ *dispatch.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)

		_, err = e.Dispatch(context.Background(), "GET", "/user/42")
		require.NoError(t, err)

		assert.Equal(t, 1, testutil.CollectAndCount(obs.dispatchDuration))
	})

	t.Run("classifies errors by taxonomy", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		obs := NewPrometheusObserver(WithRegistry(registry), WithNamespace("test"))

		e := dispatch.New()
		e.Observer = obs
		rt, err := e.GET("/secure", func(_ *dispatch.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)
		rt.Use(func(_ *dispatch.Context) error {
			return errors.New("denied")
		})
		_, err = e.GET("/broken", nil)
		require.NoError(t, err)
		_, err = e.GET("/flaky", func(_ *dispatch.Context) (any, error) {
			return nil, errors.New("boom")
		})
		require.NoError(t, err)

		_, _ = e.Dispatch(context.Background(), "GET", "/secure")
		_, _ = e.Dispatch(context.Background(), "GET", "/broken")
		_, _ = e.Dispatch(context.Background(), "GET", "/flaky")

		middleware := obs.dispatchErrors.WithLabelValues("GET", "/secure", "middleware")
		assert.InDelta(t, 1, testutil.ToFloat64(middleware), 0.001)

		invalid := obs.dispatchErrors.WithLabelValues("GET", "/broken", "invalid_handler")
		assert.InDelta(t, 1, testutil.ToFloat64(invalid), 0.001)

		handler := obs.dispatchErrors.WithLabelValues("GET", "/flaky", "handler")
		assert.InDelta(t, 1, testutil.ToFloat64(handler), 0.001)
	})

	t.Run("uses the configured namespace", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		obs := NewPrometheusObserver(WithRegistry(registry), WithNamespace("custom"))

		e := dispatch.New()
		e.Observer = obs
		_, err := e.GET("/ping", func(_ *dispatch.Context) (any, error) {
			return nil, nil
		})
		require.NoError(t, err)
		_, err = e.Dispatch(context.Background(), "GET", "/ping")
		require.NoError(t, err)

		families, err := registry.Gather()
		require.NoError(t, err)

		var names []string
		for _, mf := range families {
			names = append(names, mf.GetName())
		}
		assert.Contains(t, names, "custom_dispatches_total")
		assert.Contains(t, names, "custom_dispatch_duration_seconds")
	})
}
