// Package cleanup reclaims disk space by deleting library files no database
// row references anymore.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"galleria/internal/config"
	"galleria/internal/fileutil"
	"galleria/internal/logging"
	"galleria/internal/store"
)

// Sweeper removes orphaned files from the media directory.
type Sweeper struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// New constructs a Sweeper.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sweeper{cfg: cfg, store: st, logger: logger}
}

// Name identifies the sweeper to the scheduler.
func (s *Sweeper) Name() string { return "cleanup" }

// RunOnce adapts a sweep to the scheduler's work contract: a sweep that
// deleted nothing counts as an idle tick.
func (s *Sweeper) RunOnce(ctx context.Context) (bool, error) {
	removed, err := s.Sweep(ctx)
	return removed > 0, err
}

// Sweep deletes every regular file in the media directory that no item row
// references, either as its media file or its thumbnail. Dotfiles are left
// alone. Individual delete failures are logged and do not abort the sweep;
// the next pass picks them up again. It returns the number of files removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	referenced, err := s.store.ReferencedFilenames(ctx)
	if err != nil {
		return 0, fmt.Errorf("load referenced filenames: %w", err)
	}

	entries, err := os.ReadDir(s.cfg.Paths.MediaDir)
	if err != nil {
		return 0, fmt.Errorf("read media dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		path := filepath.Join(s.cfg.Paths.MediaDir, entry.Name())
		if err := fileutil.RemoveQuiet(path); err != nil {
			s.logger.Warn("failed to remove orphaned file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		removed++
		s.logger.Info("removed orphaned file", logging.String("filename", entry.Name()))
	}
	return removed, nil
}
