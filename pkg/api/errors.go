// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrServerStop is returned when the api server stopped unexpectedly
	ErrServerStop = errors.New("api server stopped")
	// ErrInvalidAddress is returned when the listening address cannot be parsed
	ErrInvalidAddress = errors.New("invalid listening address")
)

// ErrCreateOpenapiSchema is returned when no openapi schema can be generated for a type
type ErrCreateOpenapiSchema struct {
	name string
	err  error
}

func (e ErrCreateOpenapiSchema) Error() string {
	return fmt.Sprintf("failed to get schema for %s: %v", e.name, e.err)
}

func (e ErrCreateOpenapiSchema) Unwrap() error {
	return e.err
}
