// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package isdas implements the ISD-AS network identifiers used to name
// probe destinations and the networks observed along a path.
package isdas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidIA is returned when an identifier cannot be parsed.
var ErrInvalidIA = errors.New("invalid ISD-AS identifier")

const (
	asBits = 48
	asMask = 1<<asBits - 1
	// maxBGP is the largest AS number rendered in decimal notation
	maxBGP = 1<<32 - 1
	// maxISD is the largest isolation domain number
	maxISD = 1<<16 - 1
	// asGroups is the number of hex groups of a non-BGP AS number
	asGroups = 3
	// asGroupBits is the width of one hex group
	asGroupBits = 16
)

// IA is a network identifier made of a 16 bit isolation domain (ISD)
// and a 48 bit autonomous system number (AS).
type IA uint64

// New returns the identifier for the given ISD and AS.
func New(isd uint16, as uint64) IA {
	return IA(uint64(isd)<<asBits | as&asMask)
}

// ISD returns the isolation domain of the identifier.
func (ia IA) ISD() uint16 {
	return uint16(ia >> asBits) // #nosec G115 // shifted value always fits
}

// AS returns the autonomous system number of the identifier.
func (ia IA) AS() uint64 {
	return uint64(ia) & asMask
}

// IsZero reports whether the identifier is the wildcard 0-0.
func (ia IA) IsZero() bool {
	return ia == 0
}

// ParseIA parses identifiers of the form "1-ff00:0:110" or "64-559".
func ParseIA(s string) (IA, error) {
	isdStr, asStr, ok := strings.Cut(s, "-")
	if !ok {
		return 0, fmt.Errorf("%w: %q: missing separator", ErrInvalidIA, s)
	}

	isd, err := strconv.ParseUint(isdStr, 10, 16)
	if err != nil || isd > maxISD {
		return 0, fmt.Errorf("%w: %q: bad ISD %q", ErrInvalidIA, s, isdStr)
	}

	as, err := parseAS(asStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidIA, s, err)
	}
	return New(uint16(isd), as), nil
}

// MustParseIA is like [ParseIA] but panics on malformed input.
// It is meant for constants in tests and static tables.
func MustParseIA(s string) IA {
	ia, err := ParseIA(s)
	if err != nil {
		panic(err)
	}
	return ia
}

func parseAS(s string) (uint64, error) {
	if !strings.Contains(s, ":") {
		as, err := strconv.ParseUint(s, 10, 64)
		if err != nil || as > maxBGP {
			return 0, fmt.Errorf("bad BGP AS %q", s)
		}
		return as, nil
	}

	groups := strings.Split(s, ":")
	if len(groups) != asGroups {
		return 0, fmt.Errorf("bad AS %q: want %d groups, got %d", s, asGroups, len(groups))
	}
	var as uint64
	for _, g := range groups {
		v, err := strconv.ParseUint(g, 16, asGroupBits)
		if err != nil {
			return 0, fmt.Errorf("bad AS group %q", g)
		}
		as = as<<asGroupBits | v
	}
	return as, nil
}

// String renders the identifier in its canonical notation.
func (ia IA) String() string {
	as := ia.AS()
	if as <= maxBGP {
		return fmt.Sprintf("%d-%d", ia.ISD(), as)
	}
	return fmt.Sprintf("%d-%x:%x:%x", ia.ISD(),
		as>>(2*asGroupBits)&0xffff, as>>asGroupBits&0xffff, as&0xffff)
}

// MarshalText implements [encoding.TextMarshaler].
func (ia IA) MarshalText() ([]byte, error) {
	return []byte(ia.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (ia *IA) UnmarshalText(b []byte) error {
	v, err := ParseIA(string(b))
	if err != nil {
		return err
	}
	*ia = v
	return nil
}
