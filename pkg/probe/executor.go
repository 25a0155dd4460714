// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg/isdas"
	"github.com/telekom/pathprobe/pkg/paths"
)

// Status is the terminal classification of a probed destination.
type Status int

const (
	// StatusNoPath means the resolver returned no candidate path
	StatusNoPath Status = iota
	// StatusReached means the selected path was measured successfully
	StatusReached
	// StatusTimedOut means a probe did not complete in time
	StatusTimedOut
	// StatusLocal means the destination is the local network
	StatusLocal
)

func (s Status) String() string {
	switch s {
	case StatusNoPath:
		return "no-path"
	case StatusReached:
		return "reached"
	case StatusTimedOut:
		return "timed-out"
	case StatusLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single probe attempt over one path.
type Outcome struct {
	// Path is the probed path
	Path paths.Path
	// Elapsed is the measured latency, zero for local or timed out probes
	Elapsed time.Duration
	// TimedOut is set if the probe did not complete in time
	TimedOut bool
	// Local is set if the path does not leave the local network
	Local bool
	// Observed holds the networks that answered a multi-hop probe
	Observed []isdas.IA
	// Err is set if the attempt failed for other reasons than a timeout
	Err error
}

// Selection is the representative result of probing all candidates of a destination.
type Selection struct {
	Status  Status
	Outcome Outcome
	// PathCount is the number of candidate paths of the destination
	PathCount int
}

// Recorder receives every probe attempt.
//
//go:generate go tool moq -out recorder_moq.go . Recorder
type Recorder interface {
	RecordPath(o Outcome)
}

// Config configures the [Executor].
type Config struct {
	// LocalPort is the port probe sessions are bound to
	LocalPort int
	// PayloadSize is the size of the echo payload in bytes
	PayloadSize int
}

// Executor probes the candidate paths of a destination according to a policy.
// It is not safe for concurrent use.
type Executor struct {
	channel  Channel
	policy   Policy
	cfg      Config
	payload  []byte
	tracer   trace.Tracer
	sequence uint16
}

// NewExecutor returns an executor probing over the given channel.
func NewExecutor(ch Channel, policy Policy, cfg Config) *Executor {
	return &Executor{
		channel: ch,
		policy:  policy,
		cfg:     cfg,
		payload: make([]byte, max(cfg.PayloadSize, 0)),
		tracer:  otel.Tracer("probe"),
	}
}

// Policy returns the policy the executor probes with.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Probe probes the candidates and returns the representative selection.
// No session is opened if there are no candidates. Session and probe
// failures are returned as errors and are not retried.
func (e *Executor) Probe(ctx context.Context, candidates []paths.Path, rec Recorder) (Selection, error) {
	log := logger.FromContext(ctx).With("policy", e.policy.String())
	if !e.policy.IsValid() {
		return Selection{PathCount: len(candidates)}, fmt.Errorf("%w: %q", ErrUnknownPolicy, e.policy)
	}
	if len(candidates) == 0 {
		return Selection{Status: StatusNoPath}, nil
	}

	targets := candidates
	strategy := e.policy.Strategy()
	if strategy.TieBreak == FewestHops {
		shortest, _ := paths.MinHops(candidates)
		targets = []paths.Path{shortest}
	}

	sess, err := e.channel.Open(ctx, e.cfg.LocalPort)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open probe session", "port", e.cfg.LocalPort, "error", err)
		return Selection{PathCount: len(candidates)}, fmt.Errorf("%w: %w", ErrOpenSession, err)
	}
	e.sequence = 0
	defer func() {
		if cErr := sess.Close(); cErr != nil {
			log.WarnContext(ctx, "Failed to close probe session", "error", cErr)
		}
	}()

	sel, err := e.fold(ctx, sess, targets, rec)
	sel.PathCount = len(candidates)
	return sel, err
}

// fold probes the targets in order and keeps the fastest outcome.
// A local or timed out outcome ends the fold immediately.
func (e *Executor) fold(ctx context.Context, sess Session, targets []paths.Path, rec Recorder) (Selection, error) {
	var (
		best  Outcome
		found bool
	)
	for _, p := range targets {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}

		out := e.probe(ctx, sess, p)
		rec.RecordPath(out)
		switch {
		case out.Err != nil:
			return Selection{Outcome: out}, out.Err
		case out.Local:
			return Selection{Status: StatusLocal, Outcome: out}, nil
		case out.TimedOut:
			return Selection{Status: StatusTimedOut, Outcome: out}, nil
		}

		if !found || out.Elapsed < best.Elapsed {
			best, found = out, true
		}
	}
	return Selection{Status: StatusReached, Outcome: best}, nil
}

func (e *Executor) probe(ctx context.Context, sess Session, p paths.Path) Outcome {
	ctx, span := e.tracer.Start(ctx, "probe.path", trace.WithAttributes(
		attribute.String("probe.policy", e.policy.String()),
		attribute.String("probe.destination", p.Destination().String()),
		attribute.Int("probe.hops", p.HopCount),
	))
	defer span.End()

	var out Outcome
	switch e.policy.Strategy().Protocol {
	case MultiHop:
		out = e.traceroute(ctx, sess, p)
	case RoundTrip:
		out = e.echo(ctx, sess, p)
	default:
		out = Outcome{Path: p, Err: fmt.Errorf("%w: unsupported protocol %s", ErrProbe, e.policy.Strategy().Protocol)}
	}

	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
		return out
	}
	span.SetAttributes(
		attribute.Int64("probe.latency_ms", out.Elapsed.Milliseconds()),
		attribute.Bool("probe.timed_out", out.TimedOut),
		attribute.Bool("probe.local", out.Local),
	)
	return out
}

func (e *Executor) traceroute(ctx context.Context, sess Session, p paths.Path) Outcome {
	hops, err := sess.Traceroute(ctx, p)
	if err != nil {
		return Outcome{Path: p, Err: fmt.Errorf("%w: %w", ErrProbe, err)}
	}
	if len(hops) == 0 {
		return Outcome{Path: p, Local: true}
	}

	var observed []isdas.IA
	for _, h := range hops {
		if !h.TimedOut && !h.IA.IsZero() {
			observed = append(observed, h.IA)
		}
	}

	last := hops[len(hops)-1]
	out := Outcome{Path: p, TimedOut: last.TimedOut, Observed: observed}
	if !last.TimedOut {
		out.Elapsed = last.Elapsed
	}
	return out
}

func (e *Executor) echo(ctx context.Context, sess Session, p paths.Path) Outcome {
	seq := e.sequence
	e.sequence++

	reply, err := sess.Echo(ctx, p, seq, e.payload)
	if errors.Is(err, ErrLocal) {
		return Outcome{Path: p, Local: true}
	}
	if err != nil {
		return Outcome{Path: p, Err: fmt.Errorf("%w: %w", ErrProbe, err)}
	}

	out := Outcome{Path: p, TimedOut: reply.TimedOut}
	if !reply.TimedOut {
		out.Elapsed = reply.Elapsed
	}
	return out
}
