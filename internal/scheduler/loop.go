package scheduler

import (
	"context"
	"log/slog"
	"time"

	"galleria/internal/config"
	"galleria/internal/logging"
	"galleria/internal/sysload"
)

// Loop runs the selector forever, pacing itself by system load and by
// whether the last tick found work. When the one-minute load average exceeds
// the configured threshold the loop backs off without ticking at all.
type Loop struct {
	selector  *Selector
	logger    *slog.Logger
	threshold float64
	idleSleep time.Duration
	loadSleep time.Duration
	yield     time.Duration

	// loadAvg is swappable for tests.
	loadAvg func() (float64, error)
}

// NewLoop builds the scheduler loop from configuration.
func NewLoop(cfg *config.Config, selector *Selector, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loop{
		selector:  selector,
		logger:    logger,
		threshold: cfg.Scheduler.LoadThreshold,
		idleSleep: time.Duration(cfg.Scheduler.IdleSleepSeconds) * time.Second,
		loadSleep: time.Duration(cfg.Scheduler.HighLoadSleepSeconds) * time.Second,
		yield:     time.Duration(cfg.Scheduler.YieldSleepMillis) * time.Millisecond,
		loadAvg:   sysload.Average1,
	}
}

// Run ticks until the context is cancelled. A tick error is logged and
// treated like an idle tick so a persistent failure degrades to the idle
// cadence instead of a tight error loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("scheduler started",
		logging.Float64("load_threshold", l.threshold),
		logging.Duration("idle_sleep", l.idleSleep))

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("scheduler stopped")
			return err
		}

		load, err := l.loadAvg()
		if err != nil {
			l.logger.Warn("load average unavailable", logging.Error(err))
			load = 0
		}
		if load > l.threshold {
			l.logger.Debug("system busy, backing off",
				logging.Float64("load", load),
				logging.Float64("threshold", l.threshold))
			if err := sleepCtx(ctx, l.loadSleep); err != nil {
				return err
			}
			continue
		}

		name, err := l.selector.Tick(ctx)
		switch {
		case ctx.Err() != nil:
			l.logger.Info("scheduler stopped")
			return ctx.Err()
		case err != nil:
			l.logger.Error("tick failed", logging.Error(err))
			if err := sleepCtx(ctx, l.idleSleep); err != nil {
				return err
			}
		case name != "":
			l.logger.Debug("tick completed", logging.String("source", name))
			if err := sleepCtx(ctx, l.yield); err != nil {
				return err
			}
		default:
			if err := sleepCtx(ctx, l.idleSleep); err != nil {
				return err
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
