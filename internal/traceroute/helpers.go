// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/probe"
)

// formatHop renders a hop for the debug log.
func formatHop(h probe.Hop) string {
	if h.TimedOut {
		return fmt.Sprintf("%-2d  %-45s  *", h.Index, "*")
	}
	name := h.Addr.String()
	if !h.IA.IsZero() {
		name = fmt.Sprintf("%s (%s)", h.Addr, h.IA)
	}
	return fmt.Sprintf("%-2d  %-45.45s  %s", h.Index, name, h.Elapsed.Round(time.Microsecond))
}

// logHops logs the hops in a structured format.
func logHops(ctx context.Context, hops []probe.Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, formatHop(hop))
	}
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	log.ErrorContext(ctx, caser.String(msg), "error", err)
	span.SetStatus(codes.Error, msg)
	span.RecordError(err)
	return fmt.Errorf("%s: %w", msg, err)
}
