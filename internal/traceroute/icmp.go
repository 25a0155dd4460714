// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net/netip"
	"time"
)

// icmpPacket represents a received ICMP error or a reply of the destination.
type icmpPacket struct {
	// from is the address of the device (typically a router)
	// that sent the ICMP message in response to our probe.
	from netip.Addr
	// seq is the sequence number carried in the probe's payload.
	seq uint16
	// reached indicates whether the destination itself answered.
	// This is true for port unreachable messages and direct replies.
	reached bool
	// unreachable indicates any other destination unreachable message.
	unreachable bool
	// at is the time the packet was received.
	at time.Time
}

// ICMP codes for Destination Unreachable messages.
// For more information, see:
// https://www.iana.org/assignments/icmp-parameters/icmp-parameters.xhtml#icmp-parameters-codes-3
const (
	// icmpUnreachableHost is the ICMP code for Destination Unreachable - "Host Unreachable" messages.
	icmpUnreachableHost = 1
	// icmpUnreachablePort is the ICMP code for Destination Unreachable - "Port Unreachable" messages.
	icmpUnreachablePort = 3
)

// soEEOriginICMP is the origin of extended errors raised by received ICMP messages.
const soEEOriginICMP = 2
