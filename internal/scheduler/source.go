// Package scheduler decides which maintenance work runs next and paces the
// daemon so it stays out of the way of foreground load.
package scheduler

import (
	"context"
	"time"
)

// Source is a unit of maintenance work. RunOnce performs at most one item's
// worth of work and reports whether anything was done; returning (false, nil)
// means the source is currently idle.
type Source interface {
	Name() string
	RunOnce(ctx context.Context) (bool, error)
}

// Gated wraps a Source so it runs at most once per interval. Between due
// times it reports idle without consulting the wrapped source. The last-run
// time advances whenever the wrapped source is attempted, whether or not it
// found work.
type Gated struct {
	source   Source
	interval time.Duration
	now      func() time.Time
	lastRun  time.Time
}

// Gate wraps source with a minimum interval between runs. now may be nil, in
// which case time.Now is used.
func Gate(source Source, interval time.Duration, now func() time.Time) *Gated {
	if now == nil {
		now = time.Now
	}
	return &Gated{source: source, interval: interval, now: now}
}

// Name reports the wrapped source's name.
func (g *Gated) Name() string { return g.source.Name() }

// RunOnce runs the wrapped source when the interval has elapsed.
func (g *Gated) RunOnce(ctx context.Context) (bool, error) {
	current := g.now()
	if !g.lastRun.IsZero() && current.Sub(g.lastRun) < g.interval {
		return false, nil
	}
	g.lastRun = current
	return g.source.RunOnce(ctx)
}
