// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistryNotFound is returned when the registry resource does not exist at all
	ErrRegistryNotFound = errors.New("destination registry not found")
	// ErrMissingFields is returned for records without identifier and name
	ErrMissingFields = errors.New("record is missing fields")
	// ErrEmptyName is returned for records with an empty display name
	ErrEmptyName = errors.New("record has an empty name")
	// ErrRecordTooLong is returned for records exceeding the maximum record length
	ErrRecordTooLong = errors.New("record is too long")
)

// ErrParse describes a single record that could not be parsed.
type ErrParse struct {
	// Line is the 1-based line number of the record
	Line int
	// Content is the raw line content
	Content string
	// Err is the underlying parse error
	Err error
}

func (e ErrParse) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e ErrParse) Unwrap() error {
	return e.Err
}

// ErrUnexpectedStatus is returned when the registry download answers with a non-200 status.
type ErrUnexpectedStatus struct {
	URL    string
	Status int
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}
