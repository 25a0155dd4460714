// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/paths"
	"github.com/telekom/pathprobe/pkg/registry"
)

// State is the lifecycle state of a destination's result.
type State int

const (
	NotDone State = iota
	Done
	Error
	NoPath
	TimeOut
	LocalAS
)

func (s State) String() string {
	switch s {
	case NotDone:
		return "NOT_DONE"
	case Done:
		return "DONE"
	case Error:
		return "ERROR"
	case NoPath:
		return "NO_PATH"
	case TimeOut:
		return "TIME_OUT"
	case LocalAS:
		return "LOCAL_AS"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state by its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s != NotDone
}

// Result is the outcome of probing one destination.
type Result struct {
	Destination registry.Entry `json:"destination"`
	// Path is the selected path, empty for unmeasured destinations
	Path paths.Path `json:"path"`
	// HopCount is the hop count of the selected path
	HopCount int `json:"hopCount"`
	// PathCount is the number of candidate paths
	PathCount int `json:"pathCount"`
	// Latency is the measured latency of the selected path
	Latency time.Duration `json:"latency"`
	// Remote is the address of the selected path's terminus
	Remote     netip.Addr        `json:"remote"`
	CrossCheck crosscheck.Result `json:"crossCheck"`
	State      State             `json:"state"`
	// Err holds the failure message of errored results
	Err string `json:"error,omitempty"`
}

// LatencyMs returns the latency in fractional milliseconds.
func (r Result) LatencyMs() float64 {
	return float64(r.Latency) / float64(time.Millisecond)
}

// String renders the result as used in the extrema lines of the report.
func (r Result) String() string {
	return fmt.Sprintf("%s %s   %s  %s  nPaths=%d  nHops=%d  time=%.2fms  ICMP=%s",
		r.Destination.IA, r.Destination.Name, r.Path, r.Remote,
		r.PathCount, r.HopCount, r.LatencyMs(), r.CrossCheck)
}
