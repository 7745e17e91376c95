// Package intake admits external image files into quarantine: each accepted
// file is copied under a holding name and registered as a pending item for
// the daemon to validate.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"galleria/internal/config"
	"galleria/internal/fileutil"
	"galleria/internal/logging"
	"galleria/internal/media"
	"galleria/internal/store"
)

var titleCaser = cases.Title(language.English)

// Intake stages files into the quarantine directory and records them as
// pending library items.
type Intake struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// New constructs an Intake bound to the given store and configuration.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Intake {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Intake{cfg: cfg, store: st, logger: logger}
}

// Admit copies the file at srcPath into quarantine and creates its pending
// row. The returned item carries the holding filename, not the final library
// name; that is assigned when quarantine validation succeeds.
func (i *Intake) Admit(ctx context.Context, srcPath string, userID int64) (*store.Item, error) {
	base := filepath.Base(srcPath)
	if !media.AllowedFile(base) {
		return nil, fmt.Errorf("unsupported file type: %s", base)
	}

	holding := media.HoldingName(base)
	destPath := filepath.Join(i.cfg.Paths.QuarantineDir, holding)
	if err := fileutil.CopyFile(srcPath, destPath); err != nil {
		return nil, fmt.Errorf("stage into quarantine: %w", err)
	}

	item, err := i.store.NewPending(ctx, TitleFromFilename(base), holding, base, userID)
	if err != nil {
		_ = fileutil.RemoveQuiet(destPath)
		return nil, fmt.Errorf("register pending item: %w", err)
	}

	i.logger.Info("admitted file into quarantine",
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("original", base),
		logging.String("holding", holding))
	return item, nil
}

// AdmitDir walks a directory (non-recursively) and admits every supported
// image file, returning the admitted items. Unsupported files are skipped
// with a log line rather than failing the batch.
func (i *Intake) AdmitDir(ctx context.Context, dir string, userID int64) ([]*store.Item, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	var items []*store.Item
	for _, path := range entries {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		if !media.AllowedFile(filepath.Base(path)) {
			continue
		}
		item, err := i.Admit(ctx, path, userID)
		if err != nil {
			i.logger.Warn("skipping file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// TitleFromFilename derives a human-readable title from an upload filename:
// the extension is dropped, separators become spaces, and words are
// title-cased.
func TitleFromFilename(name string) string {
	stem := media.Stem(filepath.Base(name))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Untitled"
	}
	return titleCaser.String(stem)
}
