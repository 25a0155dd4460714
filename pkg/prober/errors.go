// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package prober

import (
	"errors"
	"fmt"
)

// ErrRunCancelled is returned when the run was stopped before all destinations were probed
var ErrRunCancelled = errors.New("run cancelled")

// ErrShutdown holds any errors that may
// have occurred during shutdown of the run's components
type ErrShutdown struct {
	errAPI     error
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errMetrics != nil
}

func (e ErrShutdown) Error() string {
	return fmt.Sprintf("failed to shutdown gracefully: %v", errors.Join(e.errAPI, e.errMetrics))
}

func (e ErrShutdown) Unwrap() []error {
	return []error{e.errAPI, e.errMetrics}
}
