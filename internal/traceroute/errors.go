// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import "errors"

var (
	// ErrUnsupportedAddress is returned for remote addresses that cannot be probed.
	// Only IPv4 remotes are supported.
	ErrUnsupportedAddress = errors.New("unsupported remote address")
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("probe session closed")
)
