package controller_test

import (
	"context"
	"contractscanner/pkg/controller"
	"contractscanner/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		value    string
		remote   string
		expected string
	}{
		{name: "x-forwarded-for", header: "X-Forwarded-For", value: "1.2.3.4, 5.6.7.8", expected: "1.2.3.4"},
		{name: "x-real-ip", header: "X-Real-IP", value: "9.8.7.6", expected: "9.8.7.6"},
		{name: "remote addr", remote: "10.0.0.1:12345", expected: "10.0.0.1"},
		{name: "invalid remote addr", remote: "not-an-addr", expected: "not-an-addr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			if tc.remote != "" {
				req.RemoteAddr = tc.remote
			}
			require.Equal(t, tc.expected, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger_SetsRequestIDAndPassesStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo-Request-Id", controller.RequestID(r.Context()))
		w.WriteHeader(http.StatusCreated)
	})

	// request provides an ID
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(controller.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, req)

	res := rec.Result()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "abc-123", res.Header.Get("X-Echo-Request-Id"))
	require.Equal(t, "abc-123", res.Header.Get(controller.RequestIDHeader))

	// request without an ID gets a generated one
	rec = httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	res = rec.Result()
	require.NotEmpty(t, res.Header.Get("X-Echo-Request-Id"))
	require.Equal(t, res.Header.Get("X-Echo-Request-Id"), res.Header.Get(controller.RequestIDHeader))
}

func TestWithLogger_AccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/tools/threat_scan", nil)
	req = req.WithContext(logger.WithLogger(context.Background(), zap.New(core)))
	controller.WithLogger(next).ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("access log").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.EqualValues(t, http.StatusBadGateway, fields["status_code"])
	require.Equal(t, "/v1/tools/threat_scan", fields["path"])
	require.NotEmpty(t, fields["requestId"])
}
