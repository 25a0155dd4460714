// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package report aggregates the results of a probing run into a report.
package report

import (
	"slices"
	"sync"

	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/probe"
	"github.com/telekom/pathprobe/pkg/registry"
)

var (
	_ probe.Recorder      = (*Aggregator)(nil)
	_ crosscheck.Recorder = (*Aggregator)(nil)
)

// DestinationStats counts the destinations of a run.
type DestinationStats struct {
	Tried   int `json:"tried"`
	Success int `json:"success"`
	Error   int `json:"error"`
	Timeout int `json:"timeout"`
	NoPath  int `json:"noPath"`
}

// PathStats counts the probe attempts of a run.
type PathStats struct {
	Tried   int `json:"tried"`
	Success int `json:"success"`
	Timeout int `json:"timeout"`
}

// CrossCheckStats counts the cross-checks of a run.
type CrossCheckStats struct {
	Tried   int `json:"tried"`
	Success int `json:"success"`
	Timeout int `json:"timeout"`
	Error   int `json:"error"`
}

// Statistics holds all counters of a run.
type Statistics struct {
	Destinations DestinationStats `json:"destinations"`
	Paths        PathStats        `json:"paths"`
	CrossChecks  CrossCheckStats  `json:"crossChecks"`
}

// Aggregator accumulates the results of one run.
// It is safe for concurrent use, so snapshots can be taken while the run is ongoing.
type Aggregator struct {
	mu      sync.Mutex
	stats   Statistics
	listed  map[isdas.IA]struct{}
	seen    map[isdas.IA]struct{}
	results []Result
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		listed: map[isdas.IA]struct{}{},
		seen:   map[isdas.IA]struct{}{},
	}
}

// RecordPath counts a probe attempt and notes the networks it observed.
// Local outcomes count as success.
func (a *Aggregator) RecordPath(o probe.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Paths.Tried++
	switch {
	case o.Err != nil:
	case o.TimedOut:
		a.stats.Paths.Timeout++
	default:
		a.stats.Paths.Success++
	}
	for _, ia := range o.Observed {
		a.seen[ia] = struct{}{}
	}
}

// RecordCrossCheck counts a cross-check. Not applicable checks are ignored.
func (a *Aggregator) RecordCrossCheck(r crosscheck.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch r.Status {
	case crosscheck.Success:
		a.stats.CrossChecks.Success++
	case crosscheck.Timeout:
		a.stats.CrossChecks.Timeout++
	case crosscheck.Error:
		a.stats.CrossChecks.Error++
	default:
		return
	}
	a.stats.CrossChecks.Tried++
}

// List marks the entries as listed destinations, whether they get probed or not.
func (a *Aggregator) List(entries []registry.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, e := range entries {
		a.listed[e.IA] = struct{}{}
	}
}

// RecordDestination counts the result of a destination and adds it to the report.
// Results that are not terminal are ignored.
func (a *Aggregator) RecordDestination(r Result) {
	if !r.State.Terminal() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Destinations.Tried++
	switch r.State {
	case Done, LocalAS:
		a.stats.Destinations.Success++
	case Error:
		a.stats.Destinations.Error++
	case NoPath:
		a.stats.Destinations.NoPath++
	case TimeOut:
		a.stats.Destinations.Timeout++
	}
	a.listed[r.Destination.IA] = struct{}{}
	a.results = append(a.results, r)
}

// Finalize computes the report of everything recorded so far.
// It does not modify the aggregator.
func (a *Aggregator) Finalize() Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	unlisted := make([]isdas.IA, 0, len(a.seen))
	for ia := range a.seen {
		if _, ok := a.listed[ia]; !ok {
			unlisted = append(unlisted, ia)
		}
	}
	slices.Sort(unlisted)

	rep := Report{
		Statistics: a.stats,
		Unlisted:   unlisted,
		Results:    slices.Clone(a.results),
	}
	for i := range rep.Results {
		r := &rep.Results[i]
		if r.State != Done {
			continue
		}
		if rep.MaxHops == nil || r.HopCount > rep.MaxHops.HopCount {
			rep.MaxHops = r
		}
		if rep.MaxLatency == nil || r.Latency > rep.MaxLatency.Latency {
			rep.MaxLatency = r
		}
		if rep.MaxPaths == nil || r.PathCount > rep.MaxPaths.PathCount {
			rep.MaxPaths = r
		}
	}
	return rep
}
