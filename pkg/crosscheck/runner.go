// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package crosscheck

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/telekom/pathprobe/internal/logger"
)

// Config configures the [Runner].
type Config struct {
	// MaxWait bounds the wait for the pinger's verdict. Zero waits until
	// the pinger reports a response or a timeout.
	MaxWait time.Duration `json:"maxWait" yaml:"maxWait" mapstructure:"maxWait"`
}

// Runner performs one-shot cross-checks.
type Runner struct {
	factory Factory
	cfg     Config
}

// NewRunner returns a runner creating one pinger per check with the factory.
func NewRunner(f Factory, cfg Config) *Runner {
	return &Runner{factory: f, cfg: cfg}
}

// Check pings addr once and waits for the verdict.
// Addresses that are not [Applicable] are neither pinged nor recorded.
func (r *Runner) Check(ctx context.Context, addr netip.Addr, rec Recorder) Result {
	if !Applicable(addr) {
		return Result{Status: NotApplicable}
	}

	res := r.check(ctx, addr)
	rec.RecordCrossCheck(res)
	return res
}

func (r *Runner) check(ctx context.Context, addr netip.Addr) Result {
	log := logger.FromContext(ctx).With("target", addr.String())

	h := newOneShot(addr)
	pinger, err := r.factory(h)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create pinger", "error", err)
		return Result{Status: Error}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	runErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr <- pinger.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	if err = pinger.Submit(addr); err != nil {
		log.ErrorContext(ctx, "Failed to submit ping", "error", err)
		return Result{Status: Error}
	}

	var expired <-chan time.Time
	if r.cfg.MaxWait > 0 {
		timer := time.NewTimer(r.cfg.MaxWait)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-h.done:
		return res
	case err = <-runErr:
		select {
		case res := <-h.done:
			return res
		default:
		}
		if err == nil || errors.Is(err, context.Canceled) {
			err = errors.New("pinger stopped without verdict")
		}
		log.ErrorContext(ctx, "Pinger failed", "error", err)
		return Result{Status: Error}
	case <-expired:
		log.WarnContext(ctx, "Cross-check exceeded maximum wait", "maxWait", r.cfg.MaxWait)
		return Result{Status: Timeout}
	case <-ctx.Done():
		log.WarnContext(ctx, "Cross-check aborted", "error", ctx.Err())
		return Result{Status: Error}
	}
}

// oneShot is a [Handler] delivering the first verdict for its target.
type oneShot struct {
	target netip.Addr
	done   chan Result
}

func newOneShot(target netip.Addr) *oneShot {
	return &oneShot{target: target, done: make(chan Result, 1)}
}

func (o *oneShot) OnResponse(target netip.Addr, elapsed time.Duration) {
	o.deliver(target, Result{Status: Success, Elapsed: elapsed})
}

func (o *oneShot) OnTimeout(target netip.Addr) {
	o.deliver(target, Result{Status: Timeout})
}

func (o *oneShot) deliver(target netip.Addr, res Result) {
	if target.Unmap() != o.target.Unmap() {
		return
	}
	select {
	case o.done <- res:
	default:
	}
}
