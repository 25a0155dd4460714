// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"

	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/probe"
)

var _ probe.Channel = (*Channel)(nil)

// Locator maps a router address to the network it belongs to.
type Locator func(addr netip.Addr) (isdas.IA, bool)

// Channel opens UDP probe sessions.
type Channel struct {
	opts   Options
	locate Locator
	tracer trace.Tracer
	// listen abstracts the creation of the session socket
	listen func(ctx context.Context, port int) (*net.UDPConn, error)
}

// NewChannel returns a channel probing with the given options.
// The locator may be nil, hops are then reported without network.
func NewChannel(opts Options, locate Locator) *Channel {
	if locate == nil {
		locate = func(netip.Addr) (isdas.IA, bool) { return 0, false }
	}
	return &Channel{
		opts:   opts,
		locate: locate,
		tracer: otel.Tracer("traceroute"),
		listen: listenUDP,
	}
}

// Open binds a UDP socket on the local port and returns a session using it.
func (c *Channel) Open(ctx context.Context, localPort int) (probe.Session, error) {
	conn, err := c.listen(ctx, localPort)
	if err != nil {
		return nil, wrapError(ctx, err, "failed to bind probe socket")
	}

	listener, err := newErrQueueListener(conn)
	if err != nil {
		return nil, errors.Join(wrapError(ctx, err, "failed creating errQueueListener"), conn.Close())
	}

	return &session{
		conn:     conn,
		listener: listener,
		opts:     c.opts,
		locate:   c.locate,
		tracer:   c.tracer,
		setTTL:   rawTTLSetter(listener.rawConn),
	}, nil
}

// listenUDP binds an IPv4 UDP socket with IP_RECVERR enabled, so the kernel
// queues ICMP errors for our probes on the socket.
func listenUDP(ctx context.Context, port int) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var opErr error
			if err := c.Control(func(fd uintptr) {
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_IP, unix.IP_RECVERR, 1) // #nosec G115
			}); err != nil {
				return err
			}
			return opErr
		},
	}

	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("", strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
