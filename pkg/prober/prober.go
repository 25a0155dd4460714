// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package prober

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/telekom/pathprobe/internal/logger"
	"github.com/telekom/pathprobe/pkg"
	"github.com/telekom/pathprobe/pkg/api"
	"github.com/telekom/pathprobe/pkg/config"
	"github.com/telekom/pathprobe/pkg/crosscheck"
	"github.com/telekom/pathprobe/pkg/metrics"
	"github.com/telekom/pathprobe/pkg/paths"
	"github.com/telekom/pathprobe/pkg/probe"
	"github.com/telekom/pathprobe/pkg/registry"
	"github.com/telekom/pathprobe/pkg/report"
)

// Components are the collaborators of a run
type Components struct {
	// Source provides the destination list
	Source registry.Source
	// Resolver discovers the candidate paths
	Resolver paths.Resolver
	// Channel opens the probe sessions
	Channel probe.Channel
	// Pinger creates the pingers used for cross-checks. Cross-checks are skipped if nil.
	Pinger crosscheck.Factory
	// Metrics provides the prometheus registry and the tracing
	Metrics metrics.Provider
	// Output receives the per destination lines and the report, defaults to stdout
	Output io.Writer
}

// Prober probes the destinations of the registry one after another
type Prober struct {
	config   *config.Config
	runID    ulid.ULID
	source   registry.Source
	resolver paths.Resolver
	executor *probe.Executor
	// checker is nil if cross-checks are disabled
	checker *crosscheck.Runner
	agg     *report.Aggregator
	metrics metrics.Provider
	m       runMetrics
	// api is nil if no listening address is configured
	api    *api.API
	out    io.Writer
	tracer trace.Tracer
}

// New creates the prober of a single run
func New(ctx context.Context, cfg *config.Config, c Components) (*Prober, error) {
	policy, err := probe.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	p := &Prober{
		config:   cfg,
		runID:    ulid.Make(),
		source:   c.Source,
		resolver: c.Resolver,
		executor: probe.NewExecutor(c.Channel, policy, probe.Config{
			LocalPort:   cfg.LocalPort,
			PayloadSize: cfg.Probe.PayloadSize,
		}),
		agg:     report.NewAggregator(),
		metrics: c.Metrics,
		m:       newRunMetrics(),
		out:     c.Output,
		tracer:  otel.Tracer("prober"),
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if cfg.HasCrossCheck() && c.Pinger != nil {
		p.checker = crosscheck.NewRunner(c.Pinger, crosscheck.Config{MaxWait: cfg.CrossCheck.MaxWait})
	}
	if cfg.HasApi() {
		p.api = api.New(ctx, cfg.Api)
	}
	return p, nil
}

// Report returns the report of everything probed so far
func (p *Prober) Report() report.Report {
	return p.agg.Finalize()
}

// Run probes all destinations in registry order and writes the report.
// Only a failure to load the registry or to set up telemetry aborts the run.
func (p *Prober) Run(ctx context.Context) (err error) {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).With("runId", p.runID.String())
	ctx = logger.IntoContext(ctx, log)

	if err = p.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err = p.registerMetrics(); err != nil {
		log.ErrorContext(ctx, "Failed to register metrics", "error", err)
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	stopAPI, err := p.startAPI(ctx)
	if err != nil {
		return err
	}
	defer func() {
		sErr := ErrShutdown{
			errAPI:     stopAPI(),
			errMetrics: p.metrics.Shutdown(context.WithoutCancel(ctx)),
		}
		if sErr.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "error", sErr)
			err = errors.Join(err, sErr)
		}
	}()

	entries, err := registry.LoadFrom(ctx, p.source)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load the destination registry", "error", err)
		return err
	}
	p.agg.List(entries)

	ctx, span := p.tracer.Start(ctx, "prober.run", trace.WithAttributes(
		attribute.String("run.id", p.runID.String()),
		attribute.String("policy", p.executor.Policy().String()),
		attribute.String("local_ia", p.resolver.LocalIA().String()),
		attribute.Int("destinations", len(entries)),
	))
	defer span.End()

	log.InfoContext(ctx, "Starting run", "policy", p.executor.Policy(), "destinations", len(entries))
	for i, e := range entries {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "Run cancelled", "probed", i, "destinations", len(entries))
			span.SetStatus(codes.Error, "run cancelled")
			err = fmt.Errorf("%w after %d of %d destinations: %w", ErrRunCancelled, i, len(entries), ctx.Err())
			break
		}
		r := p.probeDestination(ctx, e)
		p.agg.RecordDestination(r)
		p.m.Set(&r)
		p.printResult(&r)
	}

	rep := p.agg.Finalize()
	p.printf("\n")
	if wErr := rep.WriteText(p.out); wErr != nil {
		log.ErrorContext(ctx, "Failed to write report", "error", wErr)
		err = errors.Join(err, fmt.Errorf("failed to write report: %w", wErr))
	}
	log.InfoContext(ctx, "Finished run",
		"success", rep.Statistics.Destinations.Success,
		"error", rep.Statistics.Destinations.Error,
		"timeout", rep.Statistics.Destinations.Timeout,
		"noPath", rep.Statistics.Destinations.NoPath,
	)
	return err
}

// probeDestination selects the representative path of a destination and cross-checks it
func (p *Prober) probeDestination(ctx context.Context, e registry.Entry) report.Result {
	ctx, span := p.tracer.Start(ctx, "prober.destination", trace.WithAttributes(
		attribute.String("ia", e.IA.String()),
		attribute.String("name", e.Name),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("ia", e.IA.String())

	res := report.Result{Destination: e}
	candidates, err := p.resolver.Paths(ctx, e.IA, paths.NominalAddress)
	if err != nil {
		return p.failed(ctx, span, res, fmt.Errorf("failed to resolve paths: %w", err))
	}

	sel, err := p.executor.Probe(ctx, candidates, p.agg)
	res.PathCount = sel.PathCount
	if err != nil {
		return p.failed(ctx, span, res, err)
	}

	switch sel.Status {
	case probe.StatusNoPath:
		log.DebugContext(ctx, "No path found")
		res.State = report.NoPath
		return res
	case probe.StatusLocal:
		res.State = report.LocalAS
		res.Path = sel.Outcome.Path
		return res
	case probe.StatusTimedOut:
		res.State = report.TimeOut
	case probe.StatusReached:
		res.State = report.Done
	}

	res.Path = sel.Outcome.Path
	res.HopCount = sel.Outcome.Path.HopCount
	res.Remote = sel.Outcome.Path.Remote
	res.Latency = sel.Outcome.Elapsed
	if p.checker != nil {
		res.CrossCheck = p.checker.Check(ctx, res.Remote, p.agg)
	}

	span.SetAttributes(
		attribute.String("state", res.State.String()),
		attribute.Int("paths", res.PathCount),
		attribute.Int("hops", res.HopCount),
		attribute.Int64("latency_us", res.Latency.Microseconds()),
	)
	log.DebugContext(ctx, "Destination probed",
		"state", res.State, "latency", res.Latency, "crossCheck", res.CrossCheck, "path", res.Path.Describe())
	return res
}

func (p *Prober) failed(ctx context.Context, span trace.Span, res report.Result, err error) report.Result {
	logger.FromContext(ctx).WarnContext(ctx, "Failed to probe destination", "error", err)
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	res.State = report.Error
	res.Err = err.Error()
	return res
}

// printResult writes the line of a destination result
func (p *Prober) printResult(r *report.Result) {
	p.printf("%s  ", r.Destination)
	switch r.State {
	case report.NoPath:
		p.printf("WARNING: No path found from %s to %s\n", p.resolver.LocalIA(), r.Destination.IA)
	case report.Error:
		p.printf("ERROR: %s\n", r.Err)
	case report.LocalAS:
		p.printf(" -> local AS, no timing available\n")
	default:
		timing := fmt.Sprintf("%.2fms", r.LatencyMs())
		if r.State == report.TimeOut {
			timing = "TIMEOUT"
		}
		p.printf("%s  nPaths=%d  nHops=%d  time=%s  ICMP=%s", r.Remote, r.PathCount, r.HopCount, timing, r.CrossCheck)
		if p.config.ShowPath {
			p.printf("  %s", r.Path)
		}
		p.printf("\n")
	}
}

func (p *Prober) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

func (p *Prober) registerMetrics() error {
	reg := p.metrics.GetRegistry()
	for _, c := range p.m.GetCollectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return metrics.RegisterRunInfo(reg, metrics.RunInfo{
		ID:      p.runID.String(),
		Policy:  p.executor.Policy().String(),
		LocalIA: p.resolver.LocalIA().String(),
		Version: pkg.Version,
	})
}

// startAPI serves the api in the background until the returned stop function is called
func (p *Prober) startAPI(ctx context.Context) (stop func() error, err error) {
	if p.api == nil {
		return func() error { return nil }, nil
	}

	routes := []api.Route{
		api.MetricsRoute(p.metrics.GetRegistry()),
		api.ReportRoute(p.agg),
	}
	openapi, err := api.OpenapiRoute()
	if err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to create openapi route", "error", err)
		return nil, err
	}
	if err = p.api.RegisterRoutes(ctx, append(routes, openapi)...); err != nil {
		return nil, err
	}

	apiCtx, cancel := context.WithCancel(ctx)
	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = p.api.Run(apiCtx)
	}()

	return func() error {
		cancel()
		wg.Wait()
		return runErr
	}, nil
}
