// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg"
	"github.com/telekom/pathprobe/pkg/report"
)

//go:generate go tool moq -out routes_moq.go . Snapshotter
type Snapshotter interface {
	// Finalize returns the report of everything recorded so far
	Finalize() report.Report
}

// MetricsRoute serves the prometheus metrics of the registry
func MetricsRoute(registry *prometheus.Registry) Route {
	return Route{
		Path:    "/metrics",
		Method:  http.MethodGet,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}).ServeHTTP,
	}
}

// ReportRoute serves the current report snapshot as json
func ReportRoute(s Snapshotter) Route {
	return Route{
		Path:   "/v1/report",
		Method: http.MethodGet,
		Handler: func(w http.ResponseWriter, r *http.Request) {
			rep := s.Finalize()
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(&rep); err != nil {
				logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode report", "error", err)
			}
		},
	}
}

// OpenapiRoute serves the openapi document describing the report endpoint
func OpenapiRoute() (Route, error) {
	doc, err := OpenapiDoc()
	if err != nil {
		return Route{}, err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return Route{}, fmt.Errorf("failed to marshal openapi document: %w", err)
	}

	return Route{
		Path:   "/openapi",
		Method: http.MethodGet,
		Handler: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write(b); err != nil {
				logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write openapi document", "error", err)
			}
		},
	}, nil
}

// OpenapiDoc generates the openapi document of the api
func OpenapiDoc() (*openapi3.T, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(report.Report{}, nil, openapi3gen.SchemaCustomizer(textSchema))
	if err != nil {
		return nil, &ErrCreateOpenapiSchema{name: reflect.TypeFor[report.Report]().String(), err: err}
	}

	version := pkg.Version
	if version == "" {
		version = "dev"
	}

	paths := openapi3.NewPaths()
	paths.Set("/v1/report", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Summary:     "Report of the current run",
			Description: "Returns the statistics and destination results recorded so far",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().
						WithDescription("current report").
						WithJSONSchemaRef(ref),
				}),
			),
		},
	})

	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "pathprobe",
			Description: "Multi-path latency probing",
			Version:     version,
		},
		Paths: paths,
	}, nil
}

var textMarshaler = reflect.TypeFor[encoding.TextMarshaler]()

// textSchema describes types encoded by their text form as strings
func textSchema(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	if t.Implements(textMarshaler) || reflect.PointerTo(t).Implements(textMarshaler) {
		*schema = *openapi3.NewStringSchema()
	}
	return nil
}
