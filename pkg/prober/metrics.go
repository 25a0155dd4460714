// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package prober

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/report"
)

// runMetrics defines the metric collectors of a run
type runMetrics struct {
	latency    *prometheus.GaugeVec
	hops       *prometheus.GaugeVec
	paths      *prometheus.GaugeVec
	results    *prometheus.CounterVec
	crossCheck *prometheus.CounterVec
	icmp       prometheus.Histogram
}

// newRunMetrics initializes the metric collectors of a run
func newRunMetrics() runMetrics {
	return runMetrics{
		latency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pathprobe_destination_latency_seconds",
				Help: "Latency of the selected path to the destination in seconds.",
			},
			[]string{"ia"},
		),
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pathprobe_destination_hops",
				Help: "Hop count of the selected path to the destination.",
			},
			[]string{"ia"},
		),
		paths: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pathprobe_destination_paths",
				Help: "Number of candidate paths to the destination.",
			},
			[]string{"ia"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathprobe_destination_results_total",
				Help: "Total number of probed destinations by result state.",
			},
			[]string{"state"},
		),
		crossCheck: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathprobe_crosscheck_total",
				Help: "Total number of ICMP cross-checks by status.",
			},
			[]string{"status"},
		),
		icmp: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "pathprobe_crosscheck_latency_seconds",
				Help: "Histogram of successful ICMP cross-check round trips in seconds.",
			},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *runMetrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.latency,
		m.hops,
		m.paths,
		m.results,
		m.crossCheck,
		m.icmp,
	}
}

// Set sets the metrics of one destination result
func (m *runMetrics) Set(r *report.Result) {
	m.results.WithLabelValues(r.State.String()).Inc()
	if r.State == report.Done {
		ia := r.Destination.IA.String()
		m.latency.WithLabelValues(ia).Set(r.Latency.Seconds())
		m.hops.WithLabelValues(ia).Set(float64(r.HopCount))
		m.paths.WithLabelValues(ia).Set(float64(r.PathCount))
	}

	if r.CrossCheck.Status == crosscheck.NotApplicable {
		return
	}
	m.crossCheck.WithLabelValues(r.CrossCheck.Status.String()).Inc()
	if r.CrossCheck.Status == crosscheck.Success {
		m.icmp.Observe(r.CrossCheck.Elapsed.Seconds())
	}
}
