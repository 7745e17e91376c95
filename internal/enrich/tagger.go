// Package enrich backfills tags for active library items that have none,
// typically items promoted while the inference service was unreachable.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"galleria/internal/config"
	"galleria/internal/logging"
	"galleria/internal/quarantine"
	"galleria/internal/services"
	"galleria/internal/store"
)

// Tagger retries tag inference for untagged active items, one per run.
type Tagger struct {
	cfg      *config.Config
	store    *store.Store
	inferrer quarantine.TagInferrer
	logger   *slog.Logger
}

// New constructs a Tagger. A nil inferrer disables the source entirely.
func New(cfg *config.Config, st *store.Store, inferrer quarantine.TagInferrer, logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tagger{cfg: cfg, store: st, inferrer: inferrer, logger: logger}
}

// Name identifies the tagger to the scheduler.
func (t *Tagger) Name() string { return "tagging" }

// RunOnce finds the first untagged active item and attempts inference against
// its library file. An inference failure still counts as work so the
// scheduler yields instead of hammering an unreachable service; the item is
// retried on a later pass.
func (t *Tagger) RunOnce(ctx context.Context) (bool, error) {
	if t.inferrer == nil {
		return false, nil
	}

	item, err := t.store.FirstUntaggedActive(ctx)
	if err != nil {
		return false, fmt.Errorf("select untagged item: %w", err)
	}
	if item == nil {
		return false, nil
	}

	ctx = services.WithTask(services.WithItemID(ctx, item.ID), "tagging")
	logger := logging.WithContext(ctx, t.logger)
	mediaPath := filepath.Join(t.cfg.Paths.MediaDir, item.Filename)
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		// The sweep pass owns file/row consistency; skip here.
		logger.Warn("library file missing, skipping tag backfill",
			logging.String("filename", item.Filename))
		return false, nil
	}

	tags, err := t.inferrer.Infer(ctx, mediaPath)
	if err != nil {
		logger.Warn("tag inference failed, will retry later", logging.Error(err))
		return true, nil
	}
	if len(tags) == 0 {
		logger.Info("inference produced no usable tags")
		return true, nil
	}

	if err := t.store.AddTags(ctx, item.ID, tags); err != nil {
		return false, fmt.Errorf("persist tags: %w", err)
	}
	logger.Info("backfilled tags", logging.Int("tags", len(tags)))
	return true, nil
}
