// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute provides the UDP probe channel used to measure
// candidate paths.
//
// A [Channel] opens sessions bound to a fixed local port. Each session owns
// one UDP socket with IP_RECVERR enabled, so ICMP time-exceeded and
// destination-unreachable messages are delivered by the kernel through the
// socket error queue and no NET_RAW capability is required.
//
// Key features:
//   - Sequential TTL walks with IP_TTL control via x/sys/unix
//   - Router addresses mapped back to network identifiers with a [Locator]
//   - Single datagram round-trip probes timed until port-unreachable
//   - Built-in OpenTelemetry spans for each hop and errors
//   - Configurable retry policy for transient send failures
//
// Typical usage:
//
//	ch := traceroute.NewChannel(traceroute.Options{MaxHops: 30, Timeout: time.Second, Port: 33434}, topology.Locate)
//	sess, err := ch.Open(ctx, 30041)
//	hops, err := sess.Traceroute(ctx, path)
package traceroute
