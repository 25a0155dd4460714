// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/registry"
	"github.com/telekom/pathprobe/pkg/report"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled bool
		wantErr bool
	}{
		{name: "disabled", cfg: Config{}},
		{name: "port only", cfg: Config{Address: ":8080"}, enabled: true},
		{name: "host and port", cfg: Config{Address: "127.0.0.1:8080"}, enabled: true},
		{name: "missing port", cfg: Config{Address: "localhost"}, enabled: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, tt.cfg.Enabled())
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAPI_RegisterRoutes(t *testing.T) {
	a := New(t.Context(), Config{Address: ":0"})

	err := a.RegisterRoutes(t.Context(), Route{Path: "/v1/report", Method: http.MethodPost, Handler: func(http.ResponseWriter, *http.Request) {}})
	assert.Error(t, err)

	require.NoError(t, a.RegisterRoutes(t.Context(), Route{
		Path:    "/ping",
		Method:  http.MethodGet,
		Handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) },
	}))

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Run(t *testing.T) {
	t.Run("shuts down on cancel", func(t *testing.T) {
		a := New(t.Context(), Config{Address: "127.0.0.1:0"})
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan error, 1)
		go func() { done <- a.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("api did not shut down")
		}
	})

	t.Run("invalid address fails", func(t *testing.T) {
		a := New(t.Context(), Config{Address: "127.0.0.1:-1"})
		err := a.Run(t.Context())
		assert.ErrorIs(t, err, ErrServerStop)
	})
}

func TestReportRoute(t *testing.T) {
	want := report.Report{
		Statistics: report.Statistics{Destinations: report.DestinationStats{Tried: 1, Success: 1}},
		Unlisted:   []isdas.IA{isdas.MustParseIA("1-ff00:0:112")},
		Results: []report.Result{{
			Destination: registry.Entry{IA: isdas.MustParseIA("1-ff00:0:110"), Name: "Core"},
			State:       report.Done,
			Latency:     3 * time.Millisecond,
		}},
	}
	snap := &SnapshotterMock{FinalizeFunc: func() report.Report { return want }}

	rt := ReportRoute(snap)
	rec := httptest.NewRecorder()
	rt.Handler(rec, httptest.NewRequest(http.MethodGet, rt.Path, http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, snap.FinalizeCalls(), 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []any{"1-ff00:0:112"}, got["unlisted"])
	results := got["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "DONE", results[0].(map[string]any)["state"])
}

func TestMetricsRoute(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "pathprobe_test_total"}))

	rt := MetricsRoute(registry)
	rec := httptest.NewRecorder()
	rt.Handler(rec, httptest.NewRequest(http.MethodGet, rt.Path, http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "pathprobe_test_total 0"))
}

func TestOpenapiRoute(t *testing.T) {
	rt, err := OpenapiRoute()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	rt.Handler(rec, httptest.NewRequest(http.MethodGet, rt.Path, http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	op := doc.Paths.Value("/v1/report").Get
	require.NotNil(t, op)
	schema := op.Responses.Status(http.StatusOK).Value.Content.Get("application/json").Schema.Value
	assert.Contains(t, schema.Properties, "statistics")
	assert.Contains(t, schema.Properties, "results")
	assert.True(t, schema.Properties["unlisted"].Value.Items.Value.Type.Is(openapi3.TypeString))
}
