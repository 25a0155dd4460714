// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"io/fs"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/test"
)

var (
	local = isdas.MustParseIA("1-ff00:0:110")
	core  = isdas.MustParseIA("1-ff00:0:111")
	leaf  = isdas.MustParseIA("1-ff00:0:112")
)

func TestLoadStatic(t *testing.T) {
	s, err := LoadStatic(t.Context(), "testdata/topology.yaml")
	require.NoError(t, err)

	assert.Equal(t, local, s.LocalIA())

	got, err := s.Paths(t.Context(), leaf, NominalAddress)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].HopCount)
	assert.Equal(t, 1, got[1].HopCount)
	assert.Equal(t, 1472, got[0].MTU)
	assert.Equal(t, netip.MustParseAddr("198.51.100.12"), got[0].Remote)
	assert.Equal(t, netip.MustParseAddrPort("10.0.0.1:31002"), got[0].Interface)
	assert.Equal(t, "[1-ff00:0:110 5>6 1-ff00:0:112]", got[1].String())
}

func TestStatic_Paths(t *testing.T) {
	s, err := LoadStatic(t.Context(), "testdata/topology.yaml")
	require.NoError(t, err)

	t.Run("unknown destination has no paths", func(t *testing.T) {
		got, err := s.Paths(t.Context(), core, NominalAddress)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("local destination has one empty path", func(t *testing.T) {
		got, err := s.Paths(t.Context(), local, NominalAddress)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Empty())
		assert.Equal(t, NominalAddress.Addr(), got[0].Remote)
	})

	t.Run("returned paths are copies", func(t *testing.T) {
		first, err := s.Paths(t.Context(), leaf, NominalAddress)
		require.NoError(t, err)
		first[0].Hops[0].IA = core
		first[0].HopCount = 99

		second, err := s.Paths(t.Context(), leaf, NominalAddress)
		require.NoError(t, err)
		assert.Equal(t, local, second[0].Hops[0].IA)
		assert.Equal(t, 2, second[0].HopCount)
	})
}

func TestStatic_Locate(t *testing.T) {
	s, err := LoadStatic(t.Context(), "testdata/topology.yaml")
	require.NoError(t, err)

	tests := []struct {
		addr   string
		want   isdas.IA
		wantOK bool
	}{
		{addr: "192.0.2.10", want: core, wantOK: true},
		{addr: "192.0.2.200", want: leaf, wantOK: true},
		{addr: "::ffff:192.0.2.10", want: core, wantOK: true},
		{addr: "2001:db8::1", want: leaf, wantOK: true},
		{addr: "203.0.113.1", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, ok := s.Locate(netip.MustParseAddr(tt.addr))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewStatic_Invalid(t *testing.T) {
	tests := []struct {
		name string
		topo Topology
	}{
		{name: "no local network", topo: Topology{}},
		{
			name: "path with a single hop",
			topo: Topology{Local: local, Destinations: []Destination{{IA: leaf, Paths: []PathSpec{{
				Hops: []Hop{{IA: local}}, Remote: netip.MustParseAddr("192.0.2.1"),
			}}}}},
		},
		{
			name: "path starting elsewhere",
			topo: Topology{Local: local, Destinations: []Destination{{IA: leaf, Paths: []PathSpec{{
				Hops: []Hop{{IA: core}, {IA: leaf}}, Remote: netip.MustParseAddr("192.0.2.1"),
			}}}}},
		},
		{
			name: "path ending elsewhere",
			topo: Topology{Local: local, Destinations: []Destination{{IA: leaf, Paths: []PathSpec{{
				Hops: []Hop{{IA: local}, {IA: core}}, Remote: netip.MustParseAddr("192.0.2.1"),
			}}}}},
		},
		{
			name: "path without remote",
			topo: Topology{Local: local, Destinations: []Destination{{IA: leaf, Paths: []PathSpec{{
				Hops: []Hop{{IA: local}, {IA: leaf}},
			}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStatic(tt.topo)
			assert.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}

func TestLoadStatic_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStatic(t.Context(), "testdata/nonexistent.yaml")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		fsys := &test.FS{Name: "topology.yaml", File: &test.File{Content: "local: [unterminated"}}
		_, err := loadStatic(t.Context(), fsys, "topology.yaml")
		assert.ErrorContains(t, err, "failed to parse topology file")
	})
}
