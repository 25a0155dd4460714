// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a policy name is not supported.
var ErrUnknownPolicy = errors.New("unknown policy")

// Protocol is the probe protocol used against a path.
type Protocol int

const (
	// MultiHop probes report a timed response per traversed network
	MultiHop Protocol = iota + 1
	// RoundTrip probes report a single end-to-end timing
	RoundTrip
)

func (p Protocol) String() string {
	switch p {
	case MultiHop:
		return "traceroute"
	case RoundTrip:
		return "echo"
	default:
		return "unknown"
	}
}

// TieBreak decides which candidate path represents a destination.
type TieBreak int

const (
	// FewestHops selects the path with the lowest hop count before probing
	FewestHops TieBreak = iota + 1
	// FastestMeasured probes every path and selects the lowest latency
	FastestMeasured
)

func (t TieBreak) String() string {
	switch t {
	case FewestHops:
		return "shortest"
	case FastestMeasured:
		return "fastest"
	default:
		return "unknown"
	}
}

// Strategy is the pair of protocol and tie-break a policy stands for.
type Strategy struct {
	Protocol Protocol
	TieBreak TieBreak
}

// Policy is one of the statically configured probing policies.
// The zero value is not a valid policy, use the exported values or [ParsePolicy].
type Policy struct {
	name     string
	strategy Strategy
}

var (
	// FastestTraceroute probes all paths with multi-hop probes and selects the fastest
	FastestTraceroute = Policy{name: "fastest-traceroute", strategy: Strategy{Protocol: MultiHop, TieBreak: FastestMeasured}}
	// ShortestTraceroute probes the path with the fewest hops with a multi-hop probe
	ShortestTraceroute = Policy{name: "shortest-traceroute", strategy: Strategy{Protocol: MultiHop, TieBreak: FewestHops}}
	// FastestEcho probes all paths with round-trip probes and selects the fastest
	FastestEcho = Policy{name: "fastest-echo", strategy: Strategy{Protocol: RoundTrip, TieBreak: FastestMeasured}}
	// ShortestEcho probes the path with the fewest hops with a round-trip probe
	ShortestEcho = Policy{name: "shortest-echo", strategy: Strategy{Protocol: RoundTrip, TieBreak: FewestHops}}
)

// Policies returns all supported policies.
func Policies() []Policy {
	return []Policy{FastestTraceroute, ShortestTraceroute, FastestEcho, ShortestEcho}
}

// ParsePolicy returns the policy with the given name.
func ParsePolicy(name string) (Policy, error) {
	for _, p := range Policies() {
		if strings.EqualFold(p.name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

func (p Policy) String() string {
	if p.name == "" {
		return "unknown"
	}
	return p.name
}

// Strategy returns the protocol and tie-break of the policy.
func (p Policy) Strategy() Strategy {
	return p.strategy
}

// IsValid reports whether p is one of the supported policies.
func (p Policy) IsValid() bool {
	return p.name != ""
}
