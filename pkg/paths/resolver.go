// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"context"
	"net/netip"

	"github.com/telekom/pathprobe/pkg/isdas"
)

// NominalAddress is the placeholder host address passed to the resolver.
// Probes are answered by the infrastructure of the destination network, so
// the host part is never contacted.
var NominalAddress = netip.AddrPortFrom(netip.AddrFrom4([4]byte{1, 2, 3, 4}), 12345)

// Resolver discovers the candidate paths to a destination network.
// Implementations must not perform name resolution.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	// LocalIA returns the network the probes originate from.
	LocalIA() isdas.IA
	// Paths returns the ordered candidate paths to dst.
	// An empty list without error means no path exists.
	Paths(ctx context.Context, dst isdas.IA, nominal netip.AddrPort) ([]Path, error)
}
