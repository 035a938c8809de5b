// Package metrics records scan outcomes for the process. Counters are exported
// through a prometheus registry and mirrored in memory so front ends can
// print totals without scraping.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// ScanBuckets extends DefaultBuckets to cover retried calls, which may take
// several per-attempt timeouts plus backoff.
var ScanBuckets = append(append([]float64(nil), DefaultBuckets...), 30, 60, 120, 240) //nolint: gochecknoglobals

// Counts is the in-memory tally for one scan type.
type Counts struct {
	Done   int64 `json:"done"`
	Failed int64 `json:"failed"`
}

// Total returns Done+Failed.
func (c Counts) Total() int64 { return c.Done + c.Failed }

// Snapshot is a point-in-time copy of the recorded counts keyed by scan type.
type Snapshot map[string]Counts

// Recorder collects scan metrics. It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry
	scans    *prometheus.CounterVec
	duration *prometheus.HistogramVec

	mu     sync.Mutex
	counts map[string]Counts
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contractscanner",
			Name:      "scans_total",
			Help:      "Number of finished scans by type and result status.",
		}, []string{"type", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contractscanner",
			Name:      "scan_duration_seconds",
			Help:      "Wall time of scans, retries included.",
			Buckets:   ScanBuckets,
		}, []string{"type"}),
		counts: make(map[string]Counts),
	}
	r.registry.MustRegister(r.scans, r.duration)

	return r
}

// Observe records one finished scan. ok selects the DONE or FAILED bucket.
func (r *Recorder) Observe(scanType string, ok bool, elapsed time.Duration) {
	status := "FAILED"
	if ok {
		status = "DONE"
	}
	r.scans.WithLabelValues(scanType, status).Inc()
	r.duration.WithLabelValues(scanType).Observe(elapsed.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.counts[scanType]
	if ok {
		c.Done++
	} else {
		c.Failed++
	}
	r.counts[scanType] = c
}

// Snapshot returns a copy of the in-memory counts.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(Snapshot, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}

	return out
}

// Reset clears every recorded value, exported series included.
func (r *Recorder) Reset() {
	r.scans.Reset()
	r.duration.Reset()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = make(map[string]Counts)
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// NewMeterProvider returns an OpenTelemetry meter provider whose instruments
// are exported through the registry of r, next to the scan metrics.
func (r *Recorder) NewMeterProvider() (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(r.registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}
