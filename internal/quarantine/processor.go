// Package quarantine validates pending uploads and promotes them into the
// public library. Each run handles exactly one pending item so the scheduler
// can interleave other work between expensive decodes.
package quarantine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"galleria/internal/config"
	"galleria/internal/fileutil"
	"galleria/internal/logging"
	"galleria/internal/media"
	"galleria/internal/services"
	"galleria/internal/store"
)

// TagInferrer produces descriptive tags for an image file. Inference is best
// effort: a failure downgrades the item to untagged, it never blocks the
// promotion.
type TagInferrer interface {
	Infer(ctx context.Context, path string) ([]string, error)
}

// Processor promotes one pending quarantine item per run.
type Processor struct {
	cfg      *config.Config
	store    *store.Store
	inferrer TagInferrer
	logger   *slog.Logger
}

// New constructs a Processor. inferrer may be nil when tagging is disabled.
func New(cfg *config.Config, st *store.Store, inferrer TagInferrer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{cfg: cfg, store: st, inferrer: inferrer, logger: logger}
}

// Name identifies the processor to the scheduler.
func (p *Processor) Name() string { return "quarantine" }

// RunOnce picks the oldest pending item and runs the full validation
// pipeline: decode check, normalization under a fresh random name, thumbnail
// and fingerprint generation, optional tag inference, then a single
// transactional flip to active. It reports whether any work was performed.
//
// An item that fails anywhere in the pipeline is evicted: its database row
// and any files it produced are removed, and the run still counts as work
// done. A pending row is never left behind for a retry, so one broken item
// cannot block the ones queued after it.
func (p *Processor) RunOnce(ctx context.Context) (bool, error) {
	item, err := p.store.FirstPending(ctx)
	if err != nil {
		return false, fmt.Errorf("select pending item: %w", err)
	}
	if item == nil {
		return false, nil
	}

	ctx = services.WithTask(services.WithItemID(ctx, item.ID), "quarantine")
	logger := logging.WithContext(ctx, p.logger)
	holdingPath := filepath.Join(p.cfg.Paths.QuarantineDir, item.Filename)

	if _, err := os.Stat(holdingPath); os.IsNotExist(err) {
		logger.Warn("holding file vanished, dropping item",
			logging.String("filename", item.Filename))
		if _, err := p.store.Remove(ctx, item.ID); err != nil {
			return false, fmt.Errorf("remove orphaned item: %w", err)
		}
		return true, nil
	}

	if err := media.Validate(holdingPath); err != nil {
		if services.IsTerminal(err) {
			logger.Warn("rejecting invalid upload", logging.Error(err))
		} else {
			logger.Error("validation failed, dropping item", logging.Error(err))
		}
		p.evict(ctx, item.ID, holdingPath)
		return true, nil
	}

	mediaFilename, err := media.Normalize(holdingPath, p.cfg.Paths.MediaDir, p.cfg.Thumbnails.Quality)
	if err != nil {
		// Eviction, not retry: FirstPending would hand back the same row
		// every tick, so a persistent failure here would starve the whole
		// quarantine class behind one poison item.
		if services.IsTerminal(err) {
			logger.Warn("rejecting invalid upload", logging.Error(err))
		} else {
			logger.Error("normalization failed, dropping item", logging.Error(err))
		}
		p.evict(ctx, item.ID, holdingPath)
		return true, nil
	}
	mediaPath := filepath.Join(p.cfg.Paths.MediaDir, mediaFilename)

	thumbFilename, err := media.Thumbnail(
		mediaPath, p.cfg.Paths.MediaDir, mediaFilename,
		p.cfg.Thumbnails.BoxSize, p.cfg.Thumbnails.Quality,
	)
	if err != nil {
		logger.Warn("thumbnail generation failed", logging.Error(err))
		thumbFilename = ""
	}

	fingerprint, err := media.Fingerprint(mediaPath)
	if err != nil {
		logger.Warn("fingerprint computation failed", logging.Error(err))
		fingerprint = ""
	}

	var tags []string
	if p.inferrer != nil {
		tags, err = p.inferrer.Infer(ctx, mediaPath)
		if err != nil {
			logger.Warn("tag inference failed, promoting untagged", logging.Error(err))
			tags = nil
		}
	}

	item.Filename = mediaFilename
	item.ThumbnailFilename = thumbFilename
	item.Fingerprint = fingerprint
	if err := p.store.Activate(ctx, item, tags); err != nil {
		produced := []string{mediaPath}
		if thumbFilename != "" {
			produced = append(produced, filepath.Join(p.cfg.Paths.MediaDir, thumbFilename))
		}
		if errors.Is(err, store.ErrNotPending) {
			// Another writer claimed the item first. Discard only the files
			// this pass produced; the row and holding file belong to the
			// winner.
			logger.Warn("item claimed elsewhere, discarding duplicate work")
			for _, path := range produced {
				_ = fileutil.RemoveQuiet(path)
			}
			return true, nil
		}
		logger.Error("activation failed, dropping item", logging.Error(err))
		p.evict(ctx, item.ID, append(produced, holdingPath)...)
		return true, nil
	}

	if err := fileutil.RemoveQuiet(holdingPath); err != nil {
		logger.Warn("failed to remove holding file", logging.Error(err))
	}

	logger.Info("promoted item to library",
		logging.String("filename", mediaFilename),
		logging.String("thumbnail", thumbFilename),
		logging.Int("tags", len(tags)))
	return true, nil
}

// evict removes the item's row and every file path given. Eviction is best
// effort: a failure is logged and the sweep pass reclaims any leftovers.
func (p *Processor) evict(ctx context.Context, itemID int64, paths ...string) {
	if _, err := p.store.Remove(ctx, itemID); err != nil {
		p.logger.Error("failed to remove evicted item row",
			logging.Int64(logging.FieldItemID, itemID),
			logging.Error(err))
	}
	for _, path := range paths {
		if err := fileutil.RemoveQuiet(path); err != nil {
			p.logger.Warn("failed to remove evicted file",
				logging.String("path", path),
				logging.Error(err))
		}
	}
}
