// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package crosscheck

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicable(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{addr: "127.0.0.1", want: false},
		{addr: "192.168.1.1", want: false},
		{addr: "10.0.0.1", want: false},
		{addr: "172.20.0.1", want: false},
		{addr: "172.16.0.1", want: false},
		{addr: "172.31.255.255", want: false},
		{addr: "169.254.10.1", want: false},
		{addr: "0.0.0.0", want: false},
		{addr: "::1", want: false},
		{addr: "fd00::1", want: false},
		{addr: "fe80::1", want: false},
		{addr: "::ffff:192.168.1.1", want: false},
		{addr: "172.40.0.1", want: true},
		{addr: "172.15.255.255", want: true},
		{addr: "192.0.2.1", want: true},
		{addr: "2001:db8::1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, Applicable(netip.MustParseAddr(tt.addr)))
		})
	}

	assert.False(t, Applicable(netip.Addr{}), "invalid address")
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{res: Result{Status: Success, Elapsed: 12340 * time.Microsecond}, want: "12.34ms"},
		{res: Result{Status: Success, Elapsed: 500 * time.Microsecond}, want: "0.50ms"},
		{res: Result{Status: Timeout}, want: "TIMEOUT"},
		{res: Result{Status: Error}, want: "ERROR"},
		{res: Result{Status: NotApplicable}, want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.String())
		})
	}
}
