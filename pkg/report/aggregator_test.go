// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/paths"
	"github.com/telekom/pathprobe/pkg/probe"
	"github.com/telekom/pathprobe/pkg/registry"
)

var (
	iaA = isdas.MustParseIA("1-ff00:0:110")
	iaB = isdas.MustParseIA("1-ff00:0:111")
	iaC = isdas.MustParseIA("1-ff00:0:112")
	iaD = isdas.MustParseIA("2-ff00:0:210")
)

func result(ia isdas.IA, name string, state State, hops, nPaths int, latency time.Duration) Result {
	return Result{
		Destination: registry.Entry{IA: ia, Name: name},
		HopCount:    hops,
		PathCount:   nPaths,
		Latency:     latency,
		Remote:      netip.MustParseAddr("192.0.2.1"),
		State:       state,
	}
}

func TestAggregator_Unlisted(t *testing.T) {
	agg := NewAggregator()
	agg.RecordPath(probe.Outcome{Observed: []isdas.IA{iaA, iaC}})
	agg.RecordPath(probe.Outcome{Observed: []isdas.IA{iaD, iaC}, TimedOut: true})
	agg.RecordDestination(result(iaA, "A", Done, 1, 1, time.Millisecond))
	agg.RecordDestination(result(iaB, "B", NoPath, 0, 0, 0))

	rep := agg.Finalize()
	assert.Equal(t, []isdas.IA{iaC, iaD}, rep.Unlisted)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf))
	assert.Contains(t, buf.String(), " not listed = 2\n")
}

func TestAggregator_List(t *testing.T) {
	tests := []struct {
		name     string
		listed   []registry.Entry
		recorded []Result
		want     []isdas.IA
	}{
		{
			name:     "listed but not yet recorded destinations are not unlisted",
			listed:   []registry.Entry{{IA: iaA, Name: "A"}, {IA: iaC, Name: "C"}, {IA: iaD, Name: "D"}},
			recorded: []Result{result(iaA, "A", Done, 2, 1, time.Millisecond)},
			want:     []isdas.IA{},
		},
		{
			name:     "recorded destinations count as listed",
			listed:   []registry.Entry{{IA: iaC, Name: "C"}},
			recorded: []Result{result(iaD, "D", Done, 2, 1, time.Millisecond)},
			want:     []isdas.IA{iaA},
		},
		{
			name: "nothing listed",
			want: []isdas.IA{iaA, iaC, iaD},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.List(tt.listed)
			agg.RecordPath(probe.Outcome{Observed: []isdas.IA{iaA, iaC, iaD}})
			for _, r := range tt.recorded {
				agg.RecordDestination(r)
			}

			rep := agg.Finalize()
			assert.ElementsMatch(t, tt.want, rep.Unlisted)
			assert.Len(t, rep.Results, len(tt.recorded))
		})
	}
}

func TestAggregator_RecordDestination_NotTerminal(t *testing.T) {
	agg := NewAggregator()
	agg.RecordDestination(result(iaA, "A", NotDone, 0, 0, 0))
	agg.RecordDestination(result(iaB, "B", Done, 1, 1, time.Millisecond))

	rep := agg.Finalize()
	assert.Equal(t, DestinationStats{Tried: 1, Success: 1}, rep.Statistics.Destinations)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, iaB, rep.Results[0].Destination.IA)
}

func TestAggregator_Statistics(t *testing.T) {
	agg := NewAggregator()

	agg.RecordPath(probe.Outcome{Elapsed: time.Millisecond})
	agg.RecordPath(probe.Outcome{Local: true})
	agg.RecordPath(probe.Outcome{TimedOut: true})
	agg.RecordPath(probe.Outcome{Err: errors.New("boom")})

	agg.RecordCrossCheck(crosscheck.Result{Status: crosscheck.Success, Elapsed: time.Millisecond})
	agg.RecordCrossCheck(crosscheck.Result{Status: crosscheck.Timeout})
	agg.RecordCrossCheck(crosscheck.Result{Status: crosscheck.Error})
	agg.RecordCrossCheck(crosscheck.Result{Status: crosscheck.NotApplicable})

	agg.RecordDestination(result(iaA, "A", Done, 2, 3, time.Millisecond))
	agg.RecordDestination(result(iaB, "B", LocalAS, 0, 1, 0))
	agg.RecordDestination(result(iaC, "C", TimeOut, 2, 1, 0))
	agg.RecordDestination(result(iaD, "D", Error, 0, 0, 0))
	agg.RecordDestination(result(iaD, "D", NoPath, 0, 0, 0))

	want := Statistics{
		Destinations: DestinationStats{Tried: 5, Success: 2, Error: 1, Timeout: 1, NoPath: 1},
		Paths:        PathStats{Tried: 4, Success: 2, Timeout: 1},
		CrossChecks:  CrossCheckStats{Tried: 3, Success: 1, Timeout: 1, Error: 1},
	}
	rep := agg.Finalize()
	if diff := cmp.Diff(want, rep.Statistics); diff != "" {
		t.Errorf("Statistics mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, rep.Results, 5, "duplicates are preserved")
}

func TestAggregator_Extrema(t *testing.T) {
	agg := NewAggregator()
	agg.RecordDestination(result(iaA, "A", Done, 3, 2, 10*time.Millisecond))
	agg.RecordDestination(result(iaB, "B", Done, 5, 2, 4*time.Millisecond))
	agg.RecordDestination(result(iaC, "C", Done, 5, 7, 10*time.Millisecond))
	agg.RecordDestination(result(iaD, "D", TimeOut, 9, 9, 0))

	rep := agg.Finalize()
	require.NotNil(t, rep.MaxHops)
	assert.Equal(t, "B", rep.MaxHops.Destination.Name, "first occurrence wins")
	assert.Equal(t, "A", rep.MaxLatency.Destination.Name, "first occurrence wins")
	assert.Equal(t, "C", rep.MaxPaths.Destination.Name)
}

func TestAggregator_Finalize_Idempotent(t *testing.T) {
	agg := NewAggregator()
	agg.RecordPath(probe.Outcome{Observed: []isdas.IA{iaC, iaD, iaB}})
	agg.RecordDestination(result(iaA, "A", Done, 2, 3, 1500*time.Microsecond))
	agg.RecordDestination(result(iaB, "B", Done, 4, 1, 2500*time.Microsecond))

	var first, second bytes.Buffer
	r1 := agg.Finalize()
	require.NoError(t, r1.WriteText(&first))
	r2 := agg.Finalize()
	require.NoError(t, r2.WriteText(&second))

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, r1, r2)
}

func TestAggregator_Finalize_Snapshot(t *testing.T) {
	agg := NewAggregator()
	agg.RecordDestination(result(iaA, "A", Done, 2, 3, time.Millisecond))
	rep := agg.Finalize()

	agg.RecordDestination(result(iaB, "B", Done, 9, 9, time.Second))
	assert.Len(t, rep.Results, 1)
	assert.Equal(t, 1, rep.Statistics.Destinations.Tried)
	assert.Equal(t, "A", rep.MaxHops.Destination.Name)
}

func TestReport_WriteText(t *testing.T) {
	t.Run("with measured results", func(t *testing.T) {
		agg := NewAggregator()
		agg.RecordPath(probe.Outcome{Elapsed: 12340 * time.Microsecond})
		agg.RecordCrossCheck(crosscheck.Result{Status: crosscheck.Success, Elapsed: 11 * time.Millisecond})
		r := result(iaB, "Core", Done, 1, 2, 12340*time.Microsecond)
		r.Path = paths.Path{Hops: []paths.Hop{{IA: iaA, Egress: 2}, {IA: iaB, Ingress: 1}}, HopCount: 1}
		r.CrossCheck = crosscheck.Result{Status: crosscheck.Success, Elapsed: 11 * time.Millisecond}
		agg.RecordDestination(r)

		line := `1-ff00:0:111 Core   [1-ff00:0:110 2>1 1-ff00:0:111]  192.0.2.1  nPaths=2  nHops=1  time=12.34ms  ICMP=11.00ms`
		want := "AS Stats:\n" +
			" all        = 1\n" +
			" success    = 1\n" +
			" no path    = 0\n" +
			" timeout    = 0\n" +
			" error      = 0\n" +
			" not listed = 0\n" +
			"Path Stats:\n" +
			" all        = 1\n" +
			" success    = 1\n" +
			" timeout    = 0\n" +
			"ICMP Stats:\n" +
			" all        = 1\n" +
			" success    = 1\n" +
			" timeout    = 0\n" +
			" error      = 0\n" +
			"\n" +
			"Max hops  = 1:    " + line + "\n" +
			"Max ping  = 12.34ms:    " + line + "\n" +
			"Max paths = 2:    " + line + "\n"

		var buf bytes.Buffer
		rep := agg.Finalize()
		require.NoError(t, rep.WriteText(&buf))
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("WriteText() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("without measured results", func(t *testing.T) {
		agg := NewAggregator()
		agg.RecordDestination(result(iaA, "A", NoPath, 0, 0, 0))

		var buf bytes.Buffer
		rep := agg.Finalize()
		require.NoError(t, rep.WriteText(&buf))
		assert.Contains(t, buf.String(), " no path    = 1\n")
		assert.Contains(t, buf.String(), "\nMax hops  = n/a\nMax ping  = n/a\nMax paths = n/a\n")
	})
}

func TestState(t *testing.T) {
	assert.False(t, NotDone.Terminal())
	for _, s := range []State{Done, Error, NoPath, TimeOut, LocalAS} {
		assert.True(t, s.Terminal(), s.String())
	}
	b, err := TimeOut.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "TIME_OUT", string(b))
}
