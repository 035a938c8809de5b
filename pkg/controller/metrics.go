package controller

import (
	"context"
	"net/http"
	"time"

	"contractscanner/pkg/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// instrumentationName is the meter name of the HTTP server instruments.
const instrumentationName = "contractscanner/pkg/controller"

// unmatchedRoute labels requests no route matched, so unknown paths do not
// create new series.
const unmatchedRoute = "unmatched"

// WithHTTPMetrics returns a middleware recording the duration and count of
// every request, labeled by method, route pattern and status code.
func WithHTTPMetrics(mp metric.MeterProvider) func(http.Handler) http.Handler {
	meter := mp.Meter(instrumentationName)

	// instruments returned alongside an error are still usable no-ops
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of HTTP server requests."),
		metric.WithExplicitBucketBoundaries(.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 240))
	if err != nil {
		logger.Warn(context.Background(), "could not create request duration histogram", zap.Error(err))
	}
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP server requests."))
	if err != nil {
		logger.Warn(context.Background(), "could not create request counter", zap.Error(err))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			attrs := metric.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", routePattern(r)),
				attribute.Int("http.response.status_code", rec.status),
			)
			duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
			requests.Add(r.Context(), 1, attrs)
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}

	return unmatchedRoute
}
