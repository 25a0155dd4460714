// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package ping

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

type packet struct {
	b    []byte
	from net.Addr
}

// fakeConn delivers queued packets and records written echo requests.
type fakeConn struct {
	mu       sync.Mutex
	inbox    chan packet
	written  [][]byte
	dsts     []net.Addr
	writeErr error
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan packet, 8)}
}

func (f *fakeConn) ReadFrom(b []byte) (int, net.Addr, error) {
	select {
	case p := <-f.inbox:
		return copy(b, p.b), p.from, nil
	case <-time.After(5 * time.Millisecond):
		return 0, nil, os.ErrDeadlineExceeded
	}
}

func (f *fakeConn) WriteTo(b []byte, dst net.Addr) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, append([]byte(nil), b...))
	f.dsts = append(f.dsts, dst)
	return len(b), nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type event struct {
	target  netip.Addr
	elapsed time.Duration
	timeout bool
}

type fakeHandler struct {
	events chan event
}

func (h *fakeHandler) OnResponse(target netip.Addr, elapsed time.Duration) {
	h.events <- event{target: target, elapsed: elapsed}
}

func (h *fakeHandler) OnTimeout(target netip.Addr) {
	h.events <- event{target: target, timeout: true}
}

func echoReply(t *testing.T, id, seq int) []byte {
	t.Helper()
	msg := icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte("pathprobe")}}
	b, err := msg.Marshal(nil)
	require.NoError(t, err)
	return b
}

func run(t *testing.T, p *Pinger) (cancel func() error) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return func() error {
		cancelCtx()
		return <-done
	}
}

func TestPinger_Response(t *testing.T) {
	target := netip.MustParseAddr("192.0.2.10")
	conn := newFakeConn()
	h := &fakeHandler{events: make(chan event, 4)}
	p := newPinger(conn, h, Options{Timeout: time.Second}, false)
	stop := run(t, p)

	require.NoError(t, p.Submit(target))
	assert.Equal(t, 1, p.Pending())
	require.Len(t, conn.written, 1)
	assert.Equal(t, &net.UDPAddr{IP: target.AsSlice()}, conn.dsts[0])

	sent, err := icmp.ParseMessage(protocolICMP, conn.written[0])
	require.NoError(t, err)
	assert.Equal(t, ipv4.ICMPTypeEcho, sent.Type)
	seq := sent.Body.(*icmp.Echo).Seq

	// Replies from other hosts and for unknown requests are ignored
	conn.inbox <- packet{b: echoReply(t, 1, seq), from: &net.UDPAddr{IP: net.IPv4(192, 0, 2, 99)}}
	conn.inbox <- packet{b: echoReply(t, 1, seq+1), from: &net.UDPAddr{IP: target.AsSlice()}}
	conn.inbox <- packet{b: []byte{0xff}, from: &net.UDPAddr{IP: target.AsSlice()}}
	conn.inbox <- packet{b: echoReply(t, 1, seq), from: &net.UDPAddr{IP: target.AsSlice()}}

	select {
	case ev := <-h.events:
		assert.Equal(t, target, ev.target)
		assert.False(t, ev.timeout)
	case <-time.After(time.Second):
		t.Fatal("no response reported")
	}
	assert.Zero(t, p.Pending())

	require.ErrorIs(t, stop(), context.Canceled)
	assert.True(t, conn.closed)
}

func TestPinger_Timeout(t *testing.T) {
	target := netip.MustParseAddr("192.0.2.10")
	conn := newFakeConn()
	h := &fakeHandler{events: make(chan event, 4)}
	p := newPinger(conn, h, Options{Timeout: 20 * time.Millisecond}, true)
	stop := run(t, p)
	defer func() { _ = stop() }()

	require.NoError(t, p.Submit(target))
	assert.Equal(t, &net.IPAddr{IP: target.AsSlice()}, conn.dsts[0])

	select {
	case ev := <-h.events:
		assert.Equal(t, event{target: target, timeout: true}, ev)
	case <-time.After(time.Second):
		t.Fatal("no timeout reported")
	}
	assert.Zero(t, p.Pending())
}

func TestPinger_Privileged_IgnoresForeignIdentifier(t *testing.T) {
	target := netip.MustParseAddr("192.0.2.10")
	h := &fakeHandler{events: make(chan event, 1)}
	p := newPinger(newFakeConn(), h, Options{Timeout: time.Second}, true)
	p.pending[0] = request{target: target, sent: time.Now()}

	p.handle(t.Context(), echoReply(t, p.id+1, 0), &net.IPAddr{IP: target.AsSlice()}, time.Now())
	assert.Equal(t, 1, p.Pending())

	p.handle(t.Context(), echoReply(t, p.id, 0), &net.IPAddr{IP: target.AsSlice()}, time.Now())
	assert.Zero(t, p.Pending())
	assert.Len(t, h.events, 1)
}

func TestPinger_Submit_Errors(t *testing.T) {
	h := &fakeHandler{events: make(chan event, 1)}

	t.Run("ipv6 target", func(t *testing.T) {
		p := newPinger(newFakeConn(), h, Options{Timeout: time.Second}, false)
		err := p.Submit(netip.MustParseAddr("2001:db8::1"))
		assert.ErrorIs(t, err, ErrNotIPv4)
	})

	t.Run("write failure", func(t *testing.T) {
		conn := newFakeConn()
		conn.writeErr = errors.New("sendto: operation not permitted")
		p := newPinger(conn, h, Options{Timeout: time.Second}, false)

		err := p.Submit(netip.MustParseAddr("192.0.2.10"))
		assert.ErrorIs(t, err, conn.writeErr)
		assert.Zero(t, p.Pending())
	})
}
