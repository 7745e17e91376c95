package scheduler

import (
	"context"
	"fmt"
)

// Selector walks a fixed-priority list of sources and runs the first one
// with work available. Quarantine validation outranks tag backfill, which
// outranks cleanup; a busy high-priority source therefore starves the lower
// ones until its backlog drains.
type Selector struct {
	sources []Source
}

// NewSelector builds a selector over sources in priority order.
func NewSelector(sources ...Source) *Selector {
	return &Selector{sources: sources}
}

// Tick offers one unit of work to each source in priority order and stops at
// the first that performs any. It returns the name of the source that worked,
// or "" when every source was idle.
func (s *Selector) Tick(ctx context.Context) (string, error) {
	for _, source := range s.sources {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		worked, err := source.RunOnce(ctx)
		if err != nil {
			return source.Name(), fmt.Errorf("%s: %w", source.Name(), err)
		}
		if worked {
			return source.Name(), nil
		}
	}
	return "", nil
}
