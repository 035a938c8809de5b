package controller_test

import (
	"context"
	"contractscanner/pkg/controller"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestWithHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	r := chi.NewRouter()
	r.Use(controller.WithHTTPMetrics(mp))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var counter *metricdata.Sum[int64]
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name == "http.server.requests" {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			counter = &sum
		}
	}
	require.NotNil(t, counter)
	require.Len(t, counter.DataPoints, 1, "both requests share the route pattern")

	dp := counter.DataPoints[0]
	require.EqualValues(t, 2, dp.Value)
	route, ok := dp.Attributes.Value(attribute.Key("http.route"))
	require.True(t, ok)
	require.Equal(t, "/items/{id}", route.AsString())
	code, ok := dp.Attributes.Value(attribute.Key("http.response.status_code"))
	require.True(t, ok)
	require.EqualValues(t, http.StatusTeapot, code.AsInt64())
}
