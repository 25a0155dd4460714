// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package registry loads the ordered list of probe destinations.
//
// The list is a flat text resource with one comma separated record per line.
// Two layouts are understood:
//
//	"1-ff00:0:110","ETH Zurich"
//	64,"64-2:0:9","Some University"
//
// Blank lines and lines starting with '#' are ignored. Records that cannot be
// parsed are logged and skipped, a single bad record never aborts the load.
package registry

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/isdas"
)

// maxRecordLength is the longest record accepted, longer lines are skipped.
const maxRecordLength = 64 * 1024

// Entry is a single probe destination.
type Entry struct {
	// IA is the network identifier of the destination
	IA isdas.IA `json:"ia" yaml:"ia"`
	// Name is the human-readable label of the destination
	Name string `json:"name" yaml:"name"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %q", e.IA, e.Name)
}

// Load reads all destination entries from r in file order.
// Only failures of the underlying reader are returned as error.
func Load(ctx context.Context, r io.Reader) ([]Entry, error) {
	log := logger.FromContext(ctx)

	var entries []Entry
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, rErr := br.ReadString('\n')
		if rErr != nil && !errors.Is(rErr, io.EOF) {
			return entries, fmt.Errorf("failed to read registry: %w", rErr)
		}

		if entry, ok := parseLine(ctx, n, line); ok {
			entries = append(entries, entry)
		}
		if rErr != nil {
			break
		}
	}

	log.DebugContext(ctx, "Loaded destination registry", "entries", len(entries))
	return entries, nil
}

// parseLine parses line n and logs a warning for malformed records.
// Empty lines and comments are skipped silently.
func parseLine(ctx context.Context, n int, line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false
	}

	var err error
	entry := Entry{}
	if len(trimmed) > maxRecordLength {
		err = fmt.Errorf("%w: %d bytes", ErrRecordTooLong, len(trimmed))
		line = line[:maxRecordLength]
	} else {
		entry, err = parseRecord(trimmed)
	}
	if err != nil {
		pErr := ErrParse{Line: n, Content: strings.TrimRight(line, "\r\n"), Err: err}
		logger.FromContext(ctx).WarnContext(ctx, "Skipping malformed registry record",
			"line", pErr.Line, "error", pErr.Err, "content", pErr.Content)
		return Entry{}, false
	}
	return entry, true
}

// parseRecord parses a single non-empty, non-comment line.
func parseRecord(line string) (Entry, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return Entry{}, err
	}
	if len(fields) < 2 {
		return Entry{}, ErrMissingFields
	}

	ia, err := isdas.ParseIA(strings.TrimSpace(fields[0]))
	name := fields[1]
	if err != nil {
		if len(fields) < 3 {
			return Entry{}, err
		}
		// Assignment lists carry the numeric ISD in front of the identifier.
		var lErr error
		ia, lErr = isdas.ParseIA(strings.TrimSpace(fields[1]))
		if lErr != nil {
			return Entry{}, errors.Join(err, lErr)
		}
		name = fields[2]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrEmptyName
	}
	return Entry{IA: ia, Name: name}, nil
}
