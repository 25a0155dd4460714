// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/unix"

	"github.com/telekom/pathprobe/internal/helper"
	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/paths"
	"github.com/telekom/pathprobe/pkg/probe"
)

var _ probe.Session = (*session)(nil)

// packetConn is the part of a UDP socket a session needs.
type packetConn interface {
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
	Close() error
}

// session probes over one UDP socket. It is not safe for concurrent use.
type session struct {
	conn     packetConn
	listener receiver
	opts     Options
	locate   Locator
	tracer   trace.Tracer
	// setTTL sets the TTL of outgoing probes
	setTTL func(ttl int) error

	seq       uint16
	closeOnce sync.Once
	closed    bool
}

// receiver waits for the answer to a probe.
type receiver interface {
	await(ctx context.Context, seq uint16, deadline time.Time) (icmpPacket, error)
}

// Traceroute walks the path with increasing TTLs until the destination
// answers or the maximum hop count is reached.
func (s *session) Traceroute(ctx context.Context, p paths.Path) ([]probe.Hop, error) {
	if p.Empty() {
		return nil, nil
	}
	dst, err := s.destination(p)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "traceroute.walk", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", dst),
		attribute.Int("traceroute.options.max_hops", s.opts.MaxHops),
		attribute.Stringer("traceroute.options.timeout", s.opts.Timeout),
	))
	defer span.End()

	hops := make([]probe.Hop, 0, s.opts.MaxHops)
	for ttl := 1; ttl <= s.opts.MaxHops; ttl++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hop, pkt, err := s.hop(ctx, dst, ttl)
		if err != nil {
			return nil, err
		}
		if pkt.reached {
			hop.IA = p.Destination()
			hops = append(hops, hop)
			logHops(ctx, hops)
			span.SetAttributes(attribute.Bool("traceroute.target.reached", true))
			return hops, nil
		}
		hops = append(hops, hop)
		if pkt.unreachable {
			break
		}
	}

	// The destination did not answer, the final hop carries the timeout
	hops = append(hops, probe.Hop{Index: len(hops) + 1, IA: p.Destination(), Addr: p.Remote, TimedOut: true})
	logHops(ctx, hops)
	span.SetAttributes(attribute.Bool("traceroute.target.reached", false))
	return hops, nil
}

// Echo sends a single probe at full TTL and times the destination's answer.
func (s *session) Echo(ctx context.Context, p paths.Path, seq uint16, payload []byte) (probe.Reply, error) {
	if p.Empty() {
		return probe.Reply{}, probe.ErrLocal
	}
	dst, err := s.destination(p)
	if err != nil {
		return probe.Reply{}, err
	}

	ctx, span := s.tracer.Start(ctx, "traceroute.echo", trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", dst),
		attribute.Int("traceroute.echo.seq", int(seq)),
	))
	defer span.End()

	start, err := s.send(ctx, dst, echoTTL, encodeSeq(seq, payload))
	if err != nil {
		return probe.Reply{}, err
	}
	pkt, err := s.listener.await(ctx, seq, start.Add(s.opts.Timeout))
	switch {
	case errors.Is(err, errNoResponse):
		return probe.Reply{Seq: seq, TimedOut: true}, nil
	case err != nil:
		return probe.Reply{}, wrapError(ctx, err, "failed to read echo response")
	case !pkt.reached:
		logger.FromContext(ctx).DebugContext(ctx, "Destination not reached", "from", pkt.from.String())
		return probe.Reply{Seq: seq, TimedOut: true}, nil
	}
	return probe.Reply{Seq: seq, Elapsed: pkt.at.Sub(start)}, nil
}

// Close closes the socket of the session.
func (s *session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed = true
		err = s.conn.Close()
	})
	return err
}

func (s *session) destination(p paths.Path) (netip.AddrPort, error) {
	if s.closed {
		return netip.AddrPort{}, ErrSessionClosed
	}
	remote := p.Remote.Unmap()
	if !remote.Is4() {
		return netip.AddrPort{}, fmt.Errorf("%w: %s", ErrUnsupportedAddress, p.Remote)
	}
	return netip.AddrPortFrom(remote, uint16(s.opts.Port)), nil // #nosec G115 // validated in Options
}

// hop sends a probe with the given TTL and waits for its answer.
// A missing answer is reported as timed out hop.
func (s *session) hop(ctx context.Context, dst netip.AddrPort, ttl int) (probe.Hop, icmpPacket, error) {
	ctx, span := s.tracer.Start(ctx, dst.String(), trace.WithAttributes(
		attribute.Stringer("traceroute.target.address", dst),
		attribute.Int("traceroute.target.ttl", ttl),
	))
	defer span.End()

	seq := s.seq
	s.seq++
	start, err := s.send(ctx, dst, ttl, encodeSeq(seq, nil))
	if err != nil {
		return probe.Hop{}, icmpPacket{}, err
	}

	pkt, err := s.listener.await(ctx, seq, start.Add(s.opts.Timeout))
	switch {
	case errors.Is(err, errNoResponse):
		span.AddEvent("ICMP read timeout exceeded")
		return probe.Hop{Index: ttl, TimedOut: true}, icmpPacket{}, nil
	case err != nil:
		return probe.Hop{}, icmpPacket{}, wrapError(ctx, err, "failed to read ICMP message")
	}

	hop := probe.Hop{Index: ttl, Addr: pkt.from, Elapsed: pkt.at.Sub(start)}
	if ia, ok := s.locate(pkt.from); ok {
		hop.IA = ia
	}
	span.AddEvent("ICMP message received", trace.WithAttributes(
		attribute.Bool("traceroute.target.reached", pkt.reached),
		attribute.String("traceroute.target.hop", formatHop(hop)),
	))
	return hop, pkt, nil
}

// send writes the probe with the given TTL. Transient failures are retried.
// It returns the time the probe left.
func (s *session) send(ctx context.Context, dst netip.AddrPort, ttl int, payload []byte) (time.Time, error) {
	var start time.Time
	write := helper.Retry(func(ctx context.Context) error {
		if err := s.setTTL(ttl); err != nil {
			return err
		}
		start = time.Now()
		_, err := s.conn.WriteToUDPAddrPort(payload, dst)
		return err
	}, s.opts.Retry)

	if err := write(ctx); err != nil {
		return time.Time{}, wrapError(ctx, err, "failed sending UDP probe")
	}
	return start, nil
}

// rawTTLSetter returns a function setting IP_TTL on the raw connection.
func rawTTLSetter(rc syscall.RawConn) func(ttl int) error {
	return func(ttl int) error {
		var opErr error
		if err := rc.Control(func(fd uintptr) {
			opErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TTL, ttl) // #nosec G115
		}); err != nil {
			return err
		}
		return opErr
	}
}
