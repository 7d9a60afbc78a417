package scheduler

import (
	"context"
	"log/slog"
	"time"

	"availscan/internal/scanner"
)

// Scanner runs one full scan cycle.
type Scanner interface {
	Scan(ctx context.Context) scanner.Report
}

// Notifier delivers a report to an external channel.
type Notifier interface {
	Notify(ctx context.Context, report scanner.Report)
}

// Runner repeats scan cycles on a fixed interval until the context is
// cancelled. Cycles run strictly one at a time: scan, publish, notify,
// sleep, repeat. Cancellation is only observed between cycles; an in-flight
// probe is bounded by its own timeout.
type Runner struct {
	scanner  Scanner
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger
	onReport []func(scanner.Report)
}

// New creates a Runner. notifier may be nil. Pass nil logger to use the
// default logger.
func New(sc Scanner, notifier Notifier, interval time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		scanner:  sc,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// OnReport registers an observer invoked with every completed report, in
// registration order, before notification.
func (r *Runner) OnReport(fn func(scanner.Report)) {
	r.onReport = append(r.onReport, fn)
}

// Run executes cycles until ctx is cancelled. It always runs the first cycle
// immediately and returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	for cycle := 1; ; cycle++ {
		r.logger.Info("starting check cycle", "cycle", cycle)
		r.RunCycle(ctx)
		r.logger.Info("cycle complete, waiting until next check", "interval", r.interval)

		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("stop requested, shutting down")
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle runs a single scan cycle. A panic inside the cycle is recovered
// and logged so that one bad cycle never terminates the loop. The cycle runs
// on a context detached from ctx's cancellation: shutdown must not turn
// in-flight probes into spurious failures or abort the notification send.
// Probes stay bounded by their own timeouts.
func (r *Runner) RunCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("cycle failed, will retry on next iteration", "panic", rec)
		}
	}()

	ctx = context.WithoutCancel(ctx)

	report := r.scanner.Scan(ctx)

	r.logger.Info("scan complete",
		"total", report.Total(),
		"online", report.Online(),
		"offline", report.Offline(),
		"duration", report.Duration,
	)

	for _, fn := range r.onReport {
		fn(report)
	}

	if r.notifier != nil {
		r.notifier.Notify(ctx, report)
	}
}
