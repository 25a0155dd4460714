// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/isdas"
	"gopkg.in/yaml.v3"
)

var _ Resolver = (*Static)(nil)

// ErrInvalidTopology is returned when a topology file is inconsistent.
var ErrInvalidTopology = errors.New("invalid topology")

// Topology is the file format of the static resolver.
type Topology struct {
	// Local is the network the probes originate from
	Local isdas.IA `yaml:"local"`
	// Networks maps address prefixes to the networks owning them
	Networks []Network `yaml:"networks"`
	// Destinations lists the known paths per destination
	Destinations []Destination `yaml:"destinations"`
}

// Network assigns address prefixes to a network.
type Network struct {
	IA       isdas.IA       `yaml:"ia"`
	Prefixes []netip.Prefix `yaml:"prefixes"`
}

// Destination holds the candidate paths to one destination network.
type Destination struct {
	IA    isdas.IA   `yaml:"ia"`
	Paths []PathSpec `yaml:"paths"`
}

// PathSpec describes a path in the topology file.
// The hop count is derived from the hops.
type PathSpec struct {
	Hops      []Hop          `yaml:"hops"`
	MTU       int            `yaml:"mtu"`
	Interface netip.AddrPort `yaml:"interface"`
	Remote    netip.Addr     `yaml:"remote"`
}

// Static resolves paths from a fixed topology.
type Static struct {
	local    isdas.IA
	paths    map[isdas.IA][]Path
	prefixes []prefixOwner
}

type prefixOwner struct {
	prefix netip.Prefix
	ia     isdas.IA
}

// NewStatic builds a resolver from the given topology.
func NewStatic(topo Topology) (*Static, error) {
	if topo.Local.IsZero() {
		return nil, fmt.Errorf("%w: local network is not set", ErrInvalidTopology)
	}

	s := &Static{
		local: topo.Local,
		paths: make(map[isdas.IA][]Path, len(topo.Destinations)),
	}
	var err error
	for _, d := range topo.Destinations {
		for i, ps := range d.Paths {
			p, pErr := ps.build(topo.Local, d.IA)
			if pErr != nil {
				err = errors.Join(err, fmt.Errorf("%w: destination %s path %d: %w", ErrInvalidTopology, d.IA, i, pErr))
				continue
			}
			s.paths[d.IA] = append(s.paths[d.IA], p)
		}
	}
	for _, n := range topo.Networks {
		for _, pfx := range n.Prefixes {
			s.prefixes = append(s.prefixes, prefixOwner{prefix: pfx.Masked(), ia: n.IA})
		}
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (ps PathSpec) build(local, dst isdas.IA) (Path, error) {
	if len(ps.Hops) < 2 {
		return Path{}, errors.New("a path needs at least two hops")
	}
	if ps.Hops[0].IA != local {
		return Path{}, fmt.Errorf("path starts in %s instead of %s", ps.Hops[0].IA, local)
	}
	if last := ps.Hops[len(ps.Hops)-1].IA; last != dst {
		return Path{}, fmt.Errorf("path ends in %s", last)
	}
	if !ps.Remote.IsValid() {
		return Path{}, errors.New("remote address is missing")
	}
	return Path{
		Hops:      append([]Hop(nil), ps.Hops...),
		HopCount:  len(ps.Hops) - 1,
		MTU:       ps.MTU,
		Interface: ps.Interface,
		Remote:    ps.Remote,
	}, nil
}

// LoadStatic reads a topology file and builds a resolver from it.
func LoadStatic(ctx context.Context, path string) (*Static, error) {
	return loadStatic(ctx, os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func loadStatic(ctx context.Context, fsys fs.FS, name string) (s *Static, err error) {
	log := logger.FromContext(ctx).With("path", name)

	file, err := fsys.Open(name)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open topology file", "error", err)
		return nil, fmt.Errorf("failed to open topology file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read topology file", "error", err)
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}

	var topo Topology
	if err := yaml.Unmarshal(b, &topo); err != nil {
		log.ErrorContext(ctx, "Failed to parse topology file", "error", err)
		return nil, fmt.Errorf("failed to parse topology file: %w", err)
	}
	return NewStatic(topo)
}

// LocalIA returns the network the probes originate from.
func (s *Static) LocalIA() isdas.IA {
	return s.local
}

// Paths returns copies of the known paths to dst.
// The local network is reachable through a single empty path.
func (s *Static) Paths(_ context.Context, dst isdas.IA, nominal netip.AddrPort) ([]Path, error) {
	if dst == s.local {
		return []Path{{
			Hops:   []Hop{{IA: s.local}},
			Remote: nominal.Addr(),
		}}, nil
	}

	known := s.paths[dst]
	res := make([]Path, 0, len(known))
	for _, p := range known {
		res = append(res, p.clone())
	}
	return res, nil
}

// Locate returns the network owning addr, using the longest matching prefix.
func (s *Static) Locate(addr netip.Addr) (isdas.IA, bool) {
	var (
		best isdas.IA
		bits = -1
	)
	addr = addr.Unmap()
	for _, po := range s.prefixes {
		if po.prefix.Contains(addr) && po.prefix.Bits() > bits {
			best, bits = po.ia, po.prefix.Bits()
		}
	}
	return best, bits >= 0
}
