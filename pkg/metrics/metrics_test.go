package metrics_test

import (
	"context"
	"contractscanner/pkg/metrics"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveAndSnapshot(t *testing.T) {
	r := metrics.NewRecorder()

	r.Observe("vulnerability", true, time.Second)
	r.Observe("vulnerability", false, time.Second)
	r.Observe("threat", true, 2*time.Second)

	s := r.Snapshot()
	require.Equal(t, metrics.Counts{Done: 1, Failed: 1}, s["vulnerability"])
	require.Equal(t, metrics.Counts{Done: 1}, s["threat"])
	require.EqualValues(t, 2, s["vulnerability"].Total())

	expected := `
# HELP contractscanner_scans_total Number of finished scans by type and result status.
# TYPE contractscanner_scans_total counter
contractscanner_scans_total{status="DONE",type="threat"} 1
contractscanner_scans_total{status="DONE",type="vulnerability"} 1
contractscanner_scans_total{status="FAILED",type="vulnerability"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"contractscanner_scans_total"))
}

func TestRecorder_SnapshotIsCopy(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe("threat", true, 0)

	s := r.Snapshot()
	s["threat"] = metrics.Counts{Done: 99}
	require.Equal(t, metrics.Counts{Done: 1}, r.Snapshot()["threat"])
}

func TestRecorder_Reset(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe("combined", false, time.Millisecond)
	r.Reset()

	require.Empty(t, r.Snapshot())
	count, err := testutil.GatherAndCount(r.Registry(), "contractscanner_scans_total")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestRecorder_Concurrent(t *testing.T) {
	r := metrics.NewRecorder()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Observe("vulnerability", true, time.Millisecond)
		}()
	}
	wg.Wait()

	require.EqualValues(t, 50, r.Snapshot()["vulnerability"].Done)
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe("threat", true, time.Second)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint: noctx
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), `contractscanner_scan_duration_seconds_count{type="threat"} 1`)
}

func TestRecorder_NewMeterProvider(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe("threat", false, time.Second)
	mp, err := r.NewMeterProvider()
	require.NoError(t, err)
	defer func() { require.NoError(t, mp.Shutdown(context.Background())) }()

	c, err := mp.Meter("test").Int64Counter("test.requests")
	require.NoError(t, err)
	c.Add(context.Background(), 3)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint: noctx
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(b), "test_requests")
	require.Contains(t, string(b), "contractscanner_scans_total", "scan metrics share the registry")
}
