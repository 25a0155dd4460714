// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"net/netip"
	"os"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

var _ syscall.RawConn = (*fakeRawConn)(nil)

// fakeConn records the read deadlines set by the listener.
type fakeConn struct {
	setReadDeadlineFunc func(t time.Time) error
}

func (f *fakeConn) SetReadDeadline(t time.Time) error {
	if f.setReadDeadlineFunc != nil {
		return f.setReadDeadlineFunc(t)
	}
	return nil
}

// fakeRawConn implements [syscall.RawConn] for testing.
// A read callback returning false is treated as an expired deadline.
type fakeRawConn struct {
	readFunc func(func(fd uintptr) bool) error
}

func (f *fakeRawConn) Read(fn func(fd uintptr) bool) error {
	if f.readFunc != nil {
		return f.readFunc(fn)
	}
	if !fn(0) {
		return os.ErrDeadlineExceeded
	}
	return nil
}
func (f *fakeRawConn) Control(fn func(fd uintptr)) error    { fn(0); return nil }
func (f *fakeRawConn) Write(fn func(fd uintptr) bool) error { return nil }

// queueRecvMsg replaces recvMsg with a function returning the given error queue messages in order.
func queueRecvMsg(t *testing.T, msgs ...*socketMsg) {
	t.Helper()
	orig := recvMsg
	t.Cleanup(func() { recvMsg = orig })
	recvMsg = func(_ uintptr, _, _ []byte, flags int) (*socketMsg, error) {
		if flags&unix.MSG_ERRQUEUE == 0 || len(msgs) == 0 {
			return nil, unix.EAGAIN
		}
		m := msgs[0]
		msgs = msgs[1:]
		return m, nil
	}
}

func newTestListener() *errQueueListener {
	return &errQueueListener{
		conn:    &fakeConn{},
		rawConn: &fakeRawConn{},
		oobBuf:  make([]byte, oobBufSize),
		dataBuf: make([]byte, dataBufSize),
	}
}

func TestErrQueueListener_Await(t *testing.T) {
	router := netip.MustParseAddr("192.0.2.1")
	remote := netip.MustParseAddr("198.51.100.7")
	timeExceeded := newExtendedErrOOB(uint8(ipv4.ICMPTypeTimeExceeded), 0, router)

	t.Run("matching message", func(t *testing.T) {
		queueRecvMsg(t, &socketMsg{from: remote, payload: encodeSeq(5, nil), oob: timeExceeded})

		got, err := newTestListener().await(t.Context(), 5, time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, router, got.from)
		assert.Equal(t, uint16(5), got.seq)
		assert.False(t, got.reached)
		assert.False(t, got.at.IsZero())
	})

	t.Run("messages of other probes are discarded", func(t *testing.T) {
		queueRecvMsg(t,
			&socketMsg{from: remote, payload: encodeSeq(4, nil), oob: timeExceeded},
			&socketMsg{from: remote, payload: []byte{1}, oob: timeExceeded},
			&socketMsg{from: remote, payload: encodeSeq(5, nil), oob: newExtendedErrOOB(uint8(ipv4.ICMPTypeDestinationUnreachable), icmpUnreachablePort, remote)},
		)

		got, err := newTestListener().await(t.Context(), 5, time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, remote, got.from)
		assert.True(t, got.reached)
	})

	t.Run("no response before deadline", func(t *testing.T) {
		queueRecvMsg(t, &socketMsg{from: remote, payload: encodeSeq(1, nil), oob: timeExceeded})

		_, err := newTestListener().await(t.Context(), 5, time.Now().Add(time.Second))
		assert.ErrorIs(t, err, errNoResponse)
	})

	t.Run("context deadline shortens the wait", func(t *testing.T) {
		queueRecvMsg(t)
		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		want, _ := ctx.Deadline()

		var got time.Time
		l := newTestListener()
		l.conn = &fakeConn{setReadDeadlineFunc: func(d time.Time) error {
			if got.IsZero() {
				got = d
			}
			return nil
		}}
		_, err := l.await(ctx, 5, time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, errNoResponse)
		assert.Equal(t, want, got)
	})

	t.Run("receive error", func(t *testing.T) {
		orig := recvMsg
		t.Cleanup(func() { recvMsg = orig })
		recvMsg = func(uintptr, []byte, []byte, int) (*socketMsg, error) {
			return nil, unix.EBADF
		}

		_, err := newTestListener().await(t.Context(), 5, time.Now().Add(time.Second))
		assert.ErrorIs(t, err, unix.EBADF)
	})

	t.Run("reply of the destination", func(t *testing.T) {
		orig := recvMsg
		t.Cleanup(func() { recvMsg = orig })
		recvMsg = func(_ uintptr, _, _ []byte, flags int) (*socketMsg, error) {
			if flags&unix.MSG_ERRQUEUE != 0 {
				return nil, unix.EAGAIN
			}
			return &socketMsg{from: remote, payload: encodeSeq(5, []byte("pong"))}, nil
		}

		got, err := newTestListener().await(t.Context(), 5, time.Now().Add(time.Second))
		require.NoError(t, err)
		assert.True(t, got.reached)
		assert.Equal(t, remote, got.from)
	})
}

func Test_parseExtendedErr(t *testing.T) {
	remote := netip.MustParseAddr("198.51.100.7")
	router := netip.MustParseAddr("192.0.2.1")

	tests := []struct {
		name            string
		icmpType        uint8
		icmpCode        uint8
		offender        netip.Addr
		wantFrom        netip.Addr
		wantReached     bool
		wantUnreachable bool
		wantErr         error
	}{
		{
			name:     "time exceeded",
			icmpType: uint8(ipv4.ICMPTypeTimeExceeded),
			offender: router,
			wantFrom: router,
		},
		{
			name:        "destination unreachable - port unreachable",
			icmpType:    uint8(ipv4.ICMPTypeDestinationUnreachable),
			icmpCode:    icmpUnreachablePort,
			offender:    remote,
			wantFrom:    remote,
			wantReached: true,
		},
		{
			name:            "destination unreachable - host unreachable",
			icmpType:        uint8(ipv4.ICMPTypeDestinationUnreachable),
			icmpCode:        icmpUnreachableHost,
			offender:        router,
			wantFrom:        router,
			wantUnreachable: true,
		},
		{
			name:     "missing offender falls back to source",
			icmpType: uint8(ipv4.ICMPTypeTimeExceeded),
			wantFrom: remote,
		},
		{
			name:     "unexpected ICMP type",
			icmpType: 99,
			wantErr:  errUnexpectedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &socketMsg{
				from:    remote,
				payload: encodeSeq(42, nil),
				oob:     newExtendedErrOOB(tt.icmpType, tt.icmpCode, tt.offender),
			}

			got, err := parseExtendedErr(t.Context(), msg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &icmpPacket{
				from:        tt.wantFrom,
				seq:         42,
				reached:     tt.wantReached,
				unreachable: tt.wantUnreachable,
			}, got)
		})
	}
}

func Test_parseExtendedErr_Errors(t *testing.T) {
	remote := netip.MustParseAddr("198.51.100.7")

	t.Run("short extended error data", func(t *testing.T) {
		msg := &socketMsg{
			from:    remote,
			payload: encodeSeq(1, nil),
			oob:     newControlMessage(unix.SOL_IP, unix.IP_RECVERR, []byte{0x01, 0x02, 0x03}),
		}

		_, err := parseExtendedErr(t.Context(), msg)
		assert.Error(t, err)
	})

	t.Run("local error", func(t *testing.T) {
		data := make([]byte, minExtendedErrSize)
		binary.LittleEndian.PutUint32(data[0:4], uint32(unix.EMSGSIZE))
		data[4] = 1
		msg := &socketMsg{
			from:    remote,
			payload: encodeSeq(1, nil),
			oob:     newControlMessage(unix.SOL_IP, unix.IP_RECVERR, data),
		}

		_, err := parseExtendedErr(t.Context(), msg)
		assert.ErrorIs(t, err, unix.EMSGSIZE)
	})

	t.Run("no IP_RECVERR message", func(t *testing.T) {
		msg := &socketMsg{
			from:    remote,
			payload: encodeSeq(1, nil),
			oob:     newControlMessage(unix.SOL_SOCKET, unix.SO_TIMESTAMP, make([]byte, 16)),
		}

		_, err := parseExtendedErr(t.Context(), msg)
		assert.Error(t, err)
	})

	t.Run("payload without sequence number", func(t *testing.T) {
		msg := &socketMsg{from: remote, payload: []byte{}, oob: newExtendedErrOOB(11, 0, remote)}

		_, err := parseExtendedErr(t.Context(), msg)
		assert.ErrorIs(t, err, errUnexpectedMessage)
	})
}

func Test_newSockExtendedErr(t *testing.T) {
	t.Run("valid data", func(t *testing.T) {
		data := []byte{
			0x01, 0x00, 0x00, 0x00, // Errno: 1
			0x02,                   // Origin: 2
			0x0b,                   // Type: 11
			0x03,                   // Code: 3
			0x00,                   // Pad
			0x34, 0x12, 0x00, 0x00, // Info: 0x1234
			0x78, 0x56, 0x00, 0x00, // Data: 0x5678
		}

		got, err := newSockExtendedErr(data)

		assert.NoError(t, err)
		assert.Equal(t, unix.SockExtendedErr{
			Errno:  1,
			Origin: 2,
			Type:   11,
			Code:   3,
			Info:   0x1234,
			Data:   0x5678,
		}, got)
	})

	t.Run("data too short (only 3 bytes)", func(t *testing.T) {
		_, err := newSockExtendedErr([]byte{0x01, 0x02, 0x03})
		assert.Error(t, err)
	})

	t.Run("minimum size with all zeros", func(t *testing.T) {
		got, err := newSockExtendedErr(make([]byte, minExtendedErrSize))

		assert.NoError(t, err)
		assert.Equal(t, unix.SockExtendedErr{}, got)
	})
}

func Test_recvMsg(t *testing.T) {
	origUnixRecvMsg := unixRecvMsg
	defer func() { unixRecvMsg = origUnixRecvMsg }()

	t.Run("successful message reception", func(t *testing.T) {
		payload := encodeSeq(7, []byte{0xaa})
		mockOobData := []byte{0x01, 0x02, 0x03, 0x04}
		unixRecvMsg = func(fd int, p, oob []byte, flags int) (n, oobn, recvflags int, from unix.Sockaddr, err error) {
			copy(p, payload)
			copy(oob, mockOobData)
			return len(payload), len(mockOobData), 0, &unix.SockaddrInet4{Port: 33434, Addr: [4]byte{198, 51, 100, 7}}, nil
		}

		got, err := recvMsg(123, make([]byte, dataBufSize), make([]byte, oobBufSize), unix.MSG_ERRQUEUE)
		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("198.51.100.7"), got.from)
		assert.Equal(t, payload, got.payload)
		assert.Equal(t, mockOobData, got.oob)
	})

	t.Run("unix.Recvmsg returns error", func(t *testing.T) {
		unixRecvMsg = func(fd int, p, oob []byte, flags int) (n, oobn, recvflags int, from unix.Sockaddr, err error) {
			return 0, 0, 0, nil, unix.EAGAIN
		}

		got, err := recvMsg(456, make([]byte, dataBufSize), make([]byte, oobBufSize), unix.MSG_ERRQUEUE)
		assert.ErrorIs(t, err, unix.EAGAIN)
		assert.Nil(t, got)
	})
}

func TestSequence(t *testing.T) {
	b := encodeSeq(0xbeef, []byte{1, 2, 3})
	assert.Equal(t, []byte{0xbe, 0xef, 1, 2, 3}, b)

	seq, err := decodeSeq(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), seq)

	_, err = decodeSeq([]byte{1})
	assert.True(t, errors.Is(err, errUnexpectedMessage))
}

func TestAddrFromSockaddr(t *testing.T) {
	tests := []struct {
		name string
		sa   unix.Sockaddr
		want netip.Addr
	}{
		{name: "ipv4", sa: &unix.SockaddrInet4{Addr: [4]byte{192, 0, 2, 1}}, want: netip.MustParseAddr("192.0.2.1")},
		{name: "ipv4 mapped ipv6", sa: &unix.SockaddrInet6{Addr: netip.MustParseAddr("::ffff:192.0.2.1").As16()}, want: netip.MustParseAddr("192.0.2.1")},
		{name: "unsupported", sa: &unix.SockaddrUnix{Name: "/tmp/x"}, want: netip.Addr{}},
		{name: "nil", sa: nil, want: netip.Addr{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addrFromSockaddr(tt.sa))
		})
	}
}

// newExtendedErrOOB creates OOB data with an IP_RECVERR control message containing
// the extended error and, if valid, the offender address.
func newExtendedErrOOB(icmpType, icmpCode uint8, offender netip.Addr) []byte {
	data := make([]byte, minExtendedErrSize)
	data[4] = soEEOriginICMP
	data[5] = icmpType
	data[6] = icmpCode
	if offender.IsValid() {
		sa := make([]byte, sockaddrInetSize)
		binary.NativeEndian.PutUint16(sa[0:2], unix.AF_INET)
		a := offender.As4()
		copy(sa[4:8], a[:])
		data = append(data, sa...)
	}
	return newControlMessage(unix.SOL_IP, unix.IP_RECVERR, data)
}

// newControlMessage creates a control message with given level, type and data
func newControlMessage(level, msgType int, data []byte) []byte {
	cmsgLen := unix.CmsgLen(len(data))
	buf := make([]byte, unix.CmsgSpace(len(data)))

	hdr := (*unix.Cmsghdr)(unsafe.Pointer(&buf[0]))
	hdr.Len = uint64(cmsgLen)
	hdr.Level = int32(level)
	hdr.Type = int32(msgType)

	copy(buf[unix.CmsgSpace(0):], data)
	return buf
}
