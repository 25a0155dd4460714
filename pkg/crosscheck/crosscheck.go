// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package crosscheck validates probe results with an independent ICMP ping
// of the destination's remote address.
package crosscheck

import (
	"context"
	"fmt"
	"net/netip"
	"time"
)

// Status is the outcome of a cross-check.
type Status int

const (
	// NotApplicable means the address is excluded from cross-checking
	NotApplicable Status = iota
	// Success means a response arrived
	Success
	// Timeout means no response arrived in time
	Timeout
	// Error means the ping could not be performed
	Error
)

func (s Status) String() string {
	switch s {
	case NotApplicable:
		return "not-applicable"
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single cross-check.
type Result struct {
	Status Status `json:"status"`
	// Elapsed is the round-trip time, only set on success
	Elapsed time.Duration `json:"elapsed"`
}

// String renders the result as it is shown in the run output.
func (r Result) String() string {
	switch r.Status {
	case Success:
		return fmt.Sprintf("%.2fms", float64(r.Elapsed)/float64(time.Millisecond))
	case Timeout:
		return "TIMEOUT"
	case Error:
		return "ERROR"
	default:
		return "N/A"
	}
}

// Applicable reports whether addr may be cross-checked.
// Loopback, private, link-local and unspecified addresses are excluded.
func Applicable(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() {
		return false
	}
	return !addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsUnspecified()
}

// Handler receives the events of a [Pinger].
type Handler interface {
	// OnResponse is called when the target answered
	OnResponse(target netip.Addr, elapsed time.Duration)
	// OnTimeout is called when the target did not answer in time
	OnTimeout(target netip.Addr)
}

// Pinger sends ICMP echo requests and reports the events to its [Handler].
//
//go:generate go tool moq -out crosscheck_moq.go . Pinger Recorder
type Pinger interface {
	// Run runs the event loop until the context is done.
	Run(ctx context.Context) error
	// Submit sends an echo request to the target.
	Submit(target netip.Addr) error
}

// Factory creates a pinger reporting to the given handler.
type Factory func(h Handler) (Pinger, error)

// Recorder receives every cross-check of an applicable address.
type Recorder interface {
	RecordCrossCheck(r Result)
}
