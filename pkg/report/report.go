// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/telekom/pathprobe/pkg/isdas"
)

// Report is the summary of a run.
type Report struct {
	Statistics Statistics `json:"statistics"`
	// Unlisted holds the networks observed as transit that were not probed as destination
	Unlisted []isdas.IA `json:"unlisted"`
	// MaxHops is the measured result with the highest hop count
	MaxHops *Result `json:"maxHops,omitempty"`
	// MaxLatency is the measured result with the highest latency
	MaxLatency *Result `json:"maxLatency,omitempty"`
	// MaxPaths is the measured result with the most candidate paths
	MaxPaths *Result  `json:"maxPaths,omitempty"`
	Results  []Result `json:"results"`
}

// WriteText writes the plain text summary of the report.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	d, p, c := r.Statistics.Destinations, r.Statistics.Paths, r.Statistics.CrossChecks

	sb.WriteString("AS Stats:\n")
	writeStat(&sb, "all", d.Tried)
	writeStat(&sb, "success", d.Success)
	writeStat(&sb, "no path", d.NoPath)
	writeStat(&sb, "timeout", d.Timeout)
	writeStat(&sb, "error", d.Error)
	writeStat(&sb, "not listed", len(r.Unlisted))
	sb.WriteString("Path Stats:\n")
	writeStat(&sb, "all", p.Tried)
	writeStat(&sb, "success", p.Success)
	writeStat(&sb, "timeout", p.Timeout)
	sb.WriteString("ICMP Stats:\n")
	writeStat(&sb, "all", c.Tried)
	writeStat(&sb, "success", c.Success)
	writeStat(&sb, "timeout", c.Timeout)
	writeStat(&sb, "error", c.Error)
	sb.WriteString("\n")

	if r.MaxHops == nil {
		sb.WriteString("Max hops  = n/a\nMax ping  = n/a\nMax paths = n/a\n")
	} else {
		fmt.Fprintf(&sb, "Max hops  = %d:    %s\n", r.MaxHops.HopCount, r.MaxHops)
		fmt.Fprintf(&sb, "Max ping  = %.2fms:    %s\n", r.MaxLatency.LatencyMs(), r.MaxLatency)
		fmt.Fprintf(&sb, "Max paths = %d:    %s\n", r.MaxPaths.PathCount, r.MaxPaths)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeStat(sb *strings.Builder, label string, n int) {
	fmt.Fprintf(sb, " %-10s = %d\n", label, n)
}
