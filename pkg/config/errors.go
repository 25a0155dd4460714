// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
)

// ErrValidation is returned when the configuration is invalid
var ErrValidation = errors.New("validation of configuration failed")

// ErrInvalidConfig is returned for a single invalid configuration field
type ErrInvalidConfig struct {
	// Field is the path of the configuration key
	Field string
	// Reason describes the violation
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
