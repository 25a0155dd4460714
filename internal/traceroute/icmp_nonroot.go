// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/telekom/pathprobe/internal/logger"
)

// errQueueListener reads ICMP messages via the UDP socket error queue.
// It requires the UDP socket to have IP_RECVERR enabled.
type errQueueListener struct {
	conn    deadliner
	rawConn syscall.RawConn
	oobBuf  []byte
	dataBuf []byte
}

// deadliner is the part of a connection the listener needs.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

const (
	// oobBufSize is the size of the out-of-band buffer used for receiving extended error messages.
	oobBufSize = 512
	// dataBufSize is the size of the data buffer used for receiving messages.
	dataBufSize = 64
	// seqLen is the length of the sequence number prefix of every probe payload.
	seqLen = 2
)

var (
	// errNoResponse is returned when no matching message arrived before the deadline.
	errNoResponse = errors.New("no response received")
	// errUnexpectedMessage is returned for messages that do not belong to a probe.
	errUnexpectedMessage = errors.New("unexpected message")
)

// newErrQueueListener wraps a UDP connection in an errQueueListener.
func newErrQueueListener(conn net.Conn) (*errQueueListener, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("the provided connection does not implement syscall.Conn: %T", conn)
	}

	rc, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("failed to get RawConn: %w", err)
	}

	return &errQueueListener{
		conn:    conn,
		rawConn: rc,
		oobBuf:  make([]byte, oobBufSize),
		dataBuf: make([]byte, dataBufSize),
	}, nil
}

// await waits until a message for the probe with the given sequence number
// arrives. Messages of other probes are discarded. It returns [errNoResponse]
// if nothing matched before the deadline.
func (l *errQueueListener) await(ctx context.Context, seq uint16, deadline time.Time) (icmpPacket, error) {
	log := logger.FromContext(ctx)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return icmpPacket{}, fmt.Errorf("failed to set read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		pkt, err := l.recvPacket(ctx)
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
			if ctx.Err() != nil {
				return icmpPacket{}, ctx.Err()
			}
			return icmpPacket{}, errNoResponse
		case errors.Is(err, errUnexpectedMessage):
			log.DebugContext(ctx, "Discarding unexpected message", "error", err)
			continue
		case err != nil:
			return icmpPacket{}, err
		case pkt.seq != seq:
			log.DebugContext(ctx, "Discarding message of another probe", "seq", pkt.seq, "want", seq)
			continue
		default:
			return pkt, nil
		}
	}
}

// recvPacket reads one message from the error queue or, if the queue is empty,
// one datagram sent back by the destination. It blocks until the read deadline.
func (l *errQueueListener) recvPacket(ctx context.Context) (icmpPacket, error) {
	var (
		pkt   *icmpPacket
		opErr error
	)
	err := l.rawConn.Read(func(fd uintptr) bool {
		msg, rerr := recvMsg(fd, l.dataBuf, l.oobBuf, unix.MSG_ERRQUEUE)
		if rerr == nil {
			pkt, opErr = parseExtendedErr(ctx, msg)
			return true
		}
		if !errors.Is(rerr, unix.EAGAIN) && !errors.Is(rerr, unix.EWOULDBLOCK) {
			opErr = rerr
			return true
		}

		msg, rerr = recvMsg(fd, l.dataBuf, nil, unix.MSG_DONTWAIT)
		switch {
		case rerr == nil:
			pkt, opErr = parseReply(msg)
			return true
		case errors.Is(rerr, unix.EAGAIN) || errors.Is(rerr, unix.EWOULDBLOCK):
			// Nothing queued, wait for the poller
			return false
		default:
			opErr = rerr
			return true
		}
	})
	if err != nil {
		return icmpPacket{}, err
	}
	if opErr != nil {
		return icmpPacket{}, fmt.Errorf("failed to read ICMP error: %w", opErr)
	}
	pkt.at = time.Now()
	return *pkt, nil
}

// socketMsg represents a message received from the socket.
type socketMsg struct {
	// from is the source address of the message.
	// For error queue messages this is the original destination.
	from netip.Addr
	// payload is the (possibly truncated) payload of the probe.
	payload []byte
	// oob is the out-of-band data received with the message.
	// This contains the extended error information from the kernel.
	oob []byte
}

// unixRecvMsg is a wrapper around the [unix.Recvmsg] function.
// It allows us to mock the function in tests.
var unixRecvMsg = unix.Recvmsg

// recvMsg receives a message from the socket.
var recvMsg = func(fd uintptr, data, oob []byte, flags int) (*socketMsg, error) {
	n, oobn, _, from, err := unixRecvMsg(int(fd), data, oob, flags)
	if err != nil {
		return nil, err
	}

	return &socketMsg{
		from:    addrFromSockaddr(from),
		payload: data[:n],
		oob:     oob[:oobn],
	}, nil
}

// parseReply decodes a datagram sent back by the destination.
func parseReply(msg *socketMsg) (*icmpPacket, error) {
	seq, err := decodeSeq(msg.payload)
	if err != nil {
		return nil, err
	}
	return &icmpPacket{from: msg.from, seq: seq, reached: true}, nil
}

// parseExtendedErr decodes SOL_IP / IP_RECVERR control messages for both TimeExceeded and DestinationUnreachable.
var parseExtendedErr = func(ctx context.Context, msg *socketMsg) (*icmpPacket, error) {
	log := logger.FromContext(ctx)
	seq, err := decodeSeq(msg.payload)
	if err != nil {
		return nil, err
	}

	cms, err := unix.ParseSocketControlMessage(msg.oob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse control messages: %w", err)
	}

	for _, cm := range cms {
		if cm.Header.Level != unix.SOL_IP || cm.Header.Type != unix.IP_RECVERR {
			continue
		}

		ee, err := newSockExtendedErr(cm.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode extended error: %w", err)
		}
		if ee.Origin != soEEOriginICMP {
			return nil, fmt.Errorf("local socket error: %w", syscall.Errno(ee.Errno))
		}

		timeExceeded := ee.Type == uint8(ipv4.ICMPTypeTimeExceeded)
		destUnreachable := ee.Type == uint8(ipv4.ICMPTypeDestinationUnreachable)
		if !timeExceeded && !destUnreachable {
			log.DebugContext(ctx, "Received unexpected ICMP type", "extendedErr", fmt.Sprintf("%+v", ee))
			return nil, fmt.Errorf("%w: ICMP type %d with code %d", errUnexpectedMessage, ee.Type, ee.Code)
		}

		from := msg.from
		if offender, ok := offenderAddr(cm.Data); ok {
			from = offender
		}
		return &icmpPacket{
			from:        from,
			seq:         seq,
			reached:     destUnreachable && ee.Code == icmpUnreachablePort,
			unreachable: destUnreachable && ee.Code != icmpUnreachablePort,
		}, nil
	}

	return nil, errors.New("no SOL_IP/IP_RECVERR message found")
}

// minExtendedErrSize is the minimum size of the extended error structure
// as defined in the Linux kernel documentation:
// https://man7.org/linux/man-pages/man7/ip.7.html
const minExtendedErrSize = 16

// sockaddrInetSize is the size of a struct sockaddr_in.
const sockaddrInetSize = 16

// newSockExtendedErr converts the first 16 bytes of an OOB buffer into a [unix.SockExtendedErr].
func newSockExtendedErr(data []byte) (unix.SockExtendedErr, error) {
	if len(data) < minExtendedErrSize {
		return unix.SockExtendedErr{}, fmt.Errorf("extended error too short: %d bytes", len(data))
	}

	return unix.SockExtendedErr{
		Errno:  binary.LittleEndian.Uint32(data[0:4]),
		Origin: data[4],
		Type:   data[5],
		Code:   data[6],
		Info:   binary.LittleEndian.Uint32(data[8:12]),
		Data:   binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// offenderAddr extracts the address of the node that sent the ICMP error.
// The kernel places it as struct sockaddr_in right after the extended error.
func offenderAddr(data []byte) (netip.Addr, bool) {
	if len(data) < minExtendedErrSize+sockaddrInetSize {
		return netip.Addr{}, false
	}
	sa := data[minExtendedErrSize:]
	if binary.NativeEndian.Uint16(sa[0:2]) != unix.AF_INET {
		return netip.Addr{}, false
	}
	return netip.AddrFrom4([4]byte(sa[4:8])), true
}

// addrFromSockaddr converts a [unix.Sockaddr] into a [netip.Addr].
func addrFromSockaddr(sa unix.Sockaddr) netip.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrFrom4(a.Addr)
	case *unix.SockaddrInet6:
		return netip.AddrFrom16(a.Addr).Unmap()
	default:
		return netip.Addr{}
	}
}

// encodeSeq prefixes the payload with the sequence number.
func encodeSeq(seq uint16, payload []byte) []byte {
	b := make([]byte, seqLen+len(payload))
	binary.BigEndian.PutUint16(b, seq)
	copy(b[seqLen:], payload)
	return b
}

// decodeSeq reads the sequence number prefix of a probe payload.
func decodeSeq(payload []byte) (uint16, error) {
	if len(payload) < seqLen {
		return 0, fmt.Errorf("%w: payload too short for sequence number: %d bytes", errUnexpectedMessage, len(payload))
	}
	return binary.BigEndian.Uint16(payload[:seqLen]), nil
}
