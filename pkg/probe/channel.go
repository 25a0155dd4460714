// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/paths"
)

// ErrLocal is returned by [Session.Echo] if the path does not leave the
// local network and therefore no timing is available.
var ErrLocal = errors.New("destination is the local network, no timing available")

// Channel opens probe sessions.
//
//go:generate go tool moq -out channel_moq.go . Channel Session
type Channel interface {
	// Open acquires a probe session bound to the given local port.
	Open(ctx context.Context, localPort int) (Session, error)
}

// Session issues probes. It is owned by a single caller and must be closed.
type Session interface {
	// Traceroute probes every hop of the path. The last hop carries the
	// end-to-end timing. An empty result means the path is local.
	Traceroute(ctx context.Context, p paths.Path) ([]Hop, error)
	// Echo issues a single timed round trip over the path.
	Echo(ctx context.Context, p paths.Path, seq uint16, payload []byte) (Reply, error)
	// Close releases the session.
	Close() error
}

// Hop is the timed response of one hop of a multi-hop probe.
type Hop struct {
	// Index is the 1-based position of the hop
	Index int
	// IA is the network that answered, zero if unknown
	IA isdas.IA
	// Addr is the address of the answering router
	Addr netip.Addr
	// Elapsed is the time until the response arrived
	Elapsed time.Duration
	// TimedOut is set if the hop did not answer in time
	TimedOut bool
}

// Reply is the response to a round-trip probe.
type Reply struct {
	// Seq is the sequence number of the probe
	Seq uint16
	// Elapsed is the measured round-trip time
	Elapsed time.Duration
	// TimedOut is set if no response arrived in time
	TimedOut bool
}
