// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package ping sends ICMP echo requests and reports responses and timeouts
// to a [crosscheck.Handler].
package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/crosscheck"
)

var _ crosscheck.Pinger = (*Pinger)(nil)

const (
	// protocolICMP is the IANA protocol number of ICMP
	protocolICMP = 1
	// readBufSize is the size of the receive buffer
	readBufSize = 1500
	// pollInterval bounds a single blocking read so timeouts are detected
	pollInterval = 100 * time.Millisecond
)

// ErrNotIPv4 is returned when a target is not an IPv4 address.
var ErrNotIPv4 = errors.New("only IPv4 targets are supported")

// Options configures the [Pinger].
type Options struct {
	// Timeout is the time after which an unanswered request times out
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// packetConn is the part of an [icmp.PacketConn] the pinger needs.
type packetConn interface {
	ReadFrom(b []byte) (int, net.Addr, error)
	WriteTo(b []byte, dst net.Addr) (int, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

type request struct {
	target netip.Addr
	sent   time.Time
}

// Pinger sends ICMP echo requests over a single socket.
// Submit may be called concurrently with Run.
type Pinger struct {
	conn       packetConn
	handler    crosscheck.Handler
	opts       Options
	privileged bool
	id         int

	mu      sync.Mutex
	seq     uint16
	pending map[uint16]request
}

// New opens an unprivileged ICMP socket, falling back to a raw socket if
// unprivileged ICMP is not permitted, and returns a pinger using it.
func New(h crosscheck.Handler, opts Options) (*Pinger, error) {
	privileged := false
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		var rErr error
		conn, rErr = icmp.ListenPacket("ip4:icmp", "0.0.0.0")
		if rErr != nil {
			return nil, fmt.Errorf("failed to open ICMP socket: %w", errors.Join(err, rErr))
		}
		privileged = true
	}
	return newPinger(conn, h, opts, privileged), nil
}

// Factory returns a [crosscheck.Factory] creating pingers with the options.
func Factory(opts Options) crosscheck.Factory {
	return func(h crosscheck.Handler) (crosscheck.Pinger, error) {
		return New(h, opts)
	}
}

func newPinger(conn packetConn, h crosscheck.Handler, opts Options, privileged bool) *Pinger {
	return &Pinger{
		conn:       conn,
		handler:    h,
		opts:       opts,
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
		pending:    map[uint16]request{},
	}
}

// Submit sends one echo request to the target.
func (p *Pinger) Submit(target netip.Addr) error {
	target = target.Unmap()
	if !target.Is4() {
		return fmt.Errorf("%w: %s", ErrNotIPv4, target)
	}

	p.mu.Lock()
	seq := p.seq
	p.seq++
	p.mu.Unlock()

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{ID: p.id, Seq: int(seq), Data: []byte("pathprobe")},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		return fmt.Errorf("failed to marshal echo request: %w", err)
	}

	p.mu.Lock()
	p.pending[seq] = request{target: target, sent: time.Now()}
	p.mu.Unlock()

	if _, err = p.conn.WriteTo(b, p.addr(target)); err != nil {
		p.mu.Lock()
		delete(p.pending, seq)
		p.mu.Unlock()
		return fmt.Errorf("failed to send echo request: %w", err)
	}
	return nil
}

// Pending returns the number of unanswered requests.
func (p *Pinger) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Run reads responses until the context is done. It closes the socket on return.
func (p *Pinger) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer func() {
		if err := p.conn.Close(); err != nil {
			log.WarnContext(ctx, "Failed to close ICMP socket", "error", err)
		}
	}()
	stop := context.AfterFunc(ctx, func() {
		_ = p.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, readBufSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}

		n, from, err := p.conn.ReadFrom(buf)
		now := time.Now()
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read ICMP message: %w", err)
		default:
			p.handle(ctx, buf[:n], from, now)
		}
		p.expire(now)
	}
}

// handle matches an echo reply to its request.
func (p *Pinger) handle(ctx context.Context, b []byte, from net.Addr, at time.Time) {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		logger.FromContext(ctx).DebugContext(ctx, "Discarding malformed ICMP message", "error", err)
		return
	}
	echo, ok := msg.Body.(*icmp.Echo)
	if msg.Type != ipv4.ICMPTypeEchoReply || !ok {
		return
	}
	// The kernel assigns the identifier of unprivileged sockets
	if p.privileged && echo.ID != p.id {
		return
	}

	seq := uint16(echo.Seq) // #nosec G115
	p.mu.Lock()
	req, ok := p.pending[seq]
	matched := ok && req.target == addrOf(from)
	if matched {
		delete(p.pending, seq)
	}
	p.mu.Unlock()

	if matched {
		p.handler.OnResponse(req.target, at.Sub(req.sent))
	}
}

// expire reports all requests older than the timeout.
func (p *Pinger) expire(now time.Time) {
	var expired []netip.Addr
	p.mu.Lock()
	for seq, req := range p.pending {
		if now.Sub(req.sent) >= p.opts.Timeout {
			expired = append(expired, req.target)
			delete(p.pending, seq)
		}
	}
	p.mu.Unlock()

	for _, target := range expired {
		p.handler.OnTimeout(target)
	}
}

func (p *Pinger) addr(target netip.Addr) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: target.AsSlice()}
	}
	return &net.UDPAddr{IP: target.AsSlice()}
}

// addrOf returns the IP of a socket address.
func addrOf(a net.Addr) netip.Addr {
	var ip net.IP
	switch v := a.(type) {
	case *net.UDPAddr:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return netip.Addr{}
	}
	addr, _ := netip.AddrFromSlice(ip)
	return addr.Unmap()
}
