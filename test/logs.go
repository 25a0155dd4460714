// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test provides helpers shared by the package tests.
package test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/telekom/pathprobe/internal/logger"
)

// LogRecorder is a [slog.Handler] that keeps every record in memory.
type LogRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

// ContextWithRecorder returns a context carrying a logger that writes into a new [LogRecorder].
func ContextWithRecorder(t testing.TB) (context.Context, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{}
	return logger.IntoContext(t.Context(), slog.New(rec)), rec
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec.Clone())
	return nil
}

func (r *LogRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Messages returns the messages of all records logged at the given level.
func (r *LogRecorder) Messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []string
	for _, rec := range r.records {
		if rec.Level == level {
			msgs = append(msgs, rec.Message)
		}
	}
	return msgs
}

// Attr returns the values of the attribute with the given key over all records logged at level.
func (r *LogRecorder) Attr(level slog.Level, key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var vals []string
	for _, rec := range r.records {
		if rec.Level != level {
			continue
		}
		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				vals = append(vals, a.Value.String())
			}
			return true
		})
	}
	return vals
}
