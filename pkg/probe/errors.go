// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import "errors"

var (
	// ErrOpenSession is returned when no probe session could be acquired
	ErrOpenSession = errors.New("failed to open probe session")
	// ErrProbe is returned when a probe failed for other reasons than a timeout
	ErrProbe = errors.New("probe failed")
)
