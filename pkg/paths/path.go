// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package paths models the network paths towards a destination and the
// resolution service that discovers them.
package paths

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/telekom/pathprobe/pkg/isdas"
)

// Hop is one network traversed by a path together with the interfaces
// the path enters and leaves it through.
type Hop struct {
	IA      isdas.IA `json:"ia" yaml:"ia"`
	Ingress uint16   `json:"ingress,omitempty" yaml:"ingress,omitempty"`
	Egress  uint16   `json:"egress,omitempty" yaml:"egress,omitempty"`
}

// Path is one discovered route to a destination.
// Paths are read-only for everyone but the resolver that created them.
type Path struct {
	// Hops lists the traversed networks, starting with the local one
	Hops []Hop `json:"hops" yaml:"hops"`
	// HopCount is the number of inter-network links of the path
	HopCount int `json:"hopCount" yaml:"hopCount"`
	// MTU is the maximum transfer unit of the path
	MTU int `json:"mtu" yaml:"mtu"`
	// Interface is the address of the first-hop egress interface
	Interface netip.AddrPort `json:"interface" yaml:"interface"`
	// Remote is the address of the path's terminus
	Remote netip.Addr `json:"remote" yaml:"remote"`
}

// Empty reports whether the path does not leave the local network.
func (p Path) Empty() bool {
	return p.HopCount == 0
}

// Destination returns the network the path ends in.
func (p Path) Destination() isdas.IA {
	if len(p.Hops) == 0 {
		return 0
	}
	return p.Hops[len(p.Hops)-1].IA
}

// String renders the hop sequence, e.g. "[1-ff00:0:110 2>1 1-ff00:0:111]".
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, h := range p.Hops {
		if i > 0 {
			fmt.Fprintf(&sb, " %d>%d ", p.Hops[i-1].Egress, h.Ingress)
		}
		sb.WriteString(h.IA.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Describe renders the path with its metadata.
func (p Path) Describe() string {
	return fmt.Sprintf("Hops: %s MTU: %d NextHop: %s", p, p.MTU, p.Interface)
}

// clone returns a deep copy of the path.
func (p Path) clone() Path {
	c := p
	c.Hops = append([]Hop(nil), p.Hops...)
	return c
}

// MinHops returns the path with the fewest hops.
// Ties are broken by encounter order. It returns false if paths is empty.
func MinHops(paths []Path) (Path, bool) {
	if len(paths) == 0 {
		return Path{}, false
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if p.HopCount < best.HopCount {
			best = p
		}
	}
	return best, true
}
