// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	runInfoMetricName = "pathprobe_run_info"
	runInfoHelp       = "Metadata of the current probing run. Emitted once per run for correlating logs, traces and metrics."
)

// RunInfo describes a probing run.
type RunInfo struct {
	// ID is the unique identifier of the run
	ID string
	// Policy is the probing policy of the run
	Policy string
	// LocalIA is the network the run probes from
	LocalIA string
	// Version is the version of pathprobe
	Version string
}

// RegisterRunInfo registers the pathprobe_run_info info-style metric on the given registry.
// It sets the gauge to 1 with labels run_id, policy, local_ia and version.
func RegisterRunInfo(registry *prometheus.Registry, info RunInfo) error {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: runInfoMetricName,
			Help: runInfoHelp,
		},
		[]string{"run_id", "policy", "local_ia", "version"},
	)
	gauge.WithLabelValues(info.ID, info.Policy, info.LocalIA, info.Version).Set(1)
	return registry.Register(gauge)
}
