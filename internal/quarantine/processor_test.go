package quarantine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"galleria/internal/config"
	"galleria/internal/media"
	"galleria/internal/quarantine"
	"galleria/internal/store"
	"galleria/internal/testsupport"
)

type stubInferrer struct {
	tags  []string
	err   error
	calls int
}

func (s *stubInferrer) Infer(_ context.Context, _ string) ([]string, error) {
	s.calls++
	return s.tags, s.err
}

func stageHolding(t *testing.T, cfg *config.Config, st *store.Store, filename string, write func(testing.TB, string, int, int)) *store.Item {
	t.Helper()
	path := filepath.Join(cfg.Paths.QuarantineDir, filename)
	if write != nil {
		write(t, path, 120, 90)
	}
	return testsupport.NewPendingItem(t, st, "Test", filename, filename)
}

func TestRunOnceNoPendingItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	proc := quarantine.New(cfg, st, nil, nil)

	worked, err := proc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if worked {
		t.Fatal("expected no work on empty quarantine")
	}
}

func TestRunOncePromotesValidImage(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithThumbnailBox(64))
	st := testsupport.MustOpenStore(t, cfg)
	inferrer := &stubInferrer{tags: []string{"cat", "window"}}
	proc := quarantine.New(cfg, st, inferrer, nil)
	ctx := context.Background()

	item := stageHolding(t, cfg, st, "pending_x1.jpg", testsupport.WriteJPEG)

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("expected work to be done")
	}

	promoted, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if promoted.Status != store.StatusActive {
		t.Fatalf("expected active item, got %s", promoted.Status)
	}
	if !media.IsRandomStem(promoted.Filename) {
		t.Fatalf("expected normalized random filename, got %q", promoted.Filename)
	}
	if promoted.ThumbnailFilename != media.ThumbnailName(promoted.Filename) {
		t.Fatalf("unexpected thumbnail name %q", promoted.ThumbnailFilename)
	}
	if len(promoted.Fingerprint) != 16 {
		t.Fatalf("expected fingerprint, got %q", promoted.Fingerprint)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.MediaDir, promoted.Filename)); err != nil {
		t.Fatalf("normalized file missing: %v", err)
	}
	w, h, err := media.Dimensions(filepath.Join(cfg.Paths.MediaDir, promoted.ThumbnailFilename))
	if err != nil {
		t.Fatalf("thumbnail unreadable: %v", err)
	}
	if w != 64 || h != 64 {
		t.Fatalf("expected 64x64 thumbnail, got %dx%d", w, h)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.QuarantineDir, "pending_x1.jpg")); !os.IsNotExist(err) {
		t.Fatalf("holding file should be removed, stat err=%v", err)
	}

	tags, err := st.TagsForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("TagsForItem failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", tags)
	}
	if inferrer.calls != 1 {
		t.Fatalf("expected one inference call, got %d", inferrer.calls)
	}
}

func TestRunOnceEvictsCorruptUpload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	proc := quarantine.New(cfg, st, nil, nil)
	ctx := context.Background()

	path := filepath.Join(cfg.Paths.QuarantineDir, "pending_bad.jpg")
	testsupport.WriteCorrupt(t, path)
	item := testsupport.NewPendingItem(t, st, "Bad", "pending_bad.jpg", "bad.jpg")

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("rejecting an item counts as work")
	}

	gone, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected row to be evicted, got %#v", gone)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("holding file should be deleted, stat err=%v", err)
	}
}

func TestRunOnceEvictsWhenHoldingFileUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	proc := quarantine.New(cfg, st, nil, nil)
	ctx := context.Background()

	item := stageHolding(t, cfg, st, "pending_locked.png", testsupport.WritePNG)
	path := filepath.Join(cfg.Paths.QuarantineDir, "pending_locked.png")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("evicting an unreadable item counts as work")
	}

	gone, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected row to be evicted, got %#v", gone)
	}
	// The row must never come back around: the next tick sees an empty queue.
	if worked, err := proc.RunOnce(ctx); err != nil || worked {
		t.Fatalf("expected idle tick after eviction, worked=%v err=%v", worked, err)
	}
}

func TestRunOnceEvictsWhenMediaDirUnwritable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item := stageHolding(t, cfg, st, "pending_nowhere.jpg", testsupport.WriteJPEG)

	// Pointing the media store at a regular file makes every normalization
	// write fail with something other than a decode error.
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.Paths.MediaDir = filepath.Join(blocked, "media")
	proc := quarantine.New(cfg, st, nil, nil)

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("evicting after a write failure counts as work")
	}

	gone, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected row to be evicted, got %#v", gone)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.QuarantineDir, "pending_nowhere.jpg")); !os.IsNotExist(err) {
		t.Fatalf("holding file should be deleted, stat err=%v", err)
	}
}

func TestRunOnceDropsRowWhenHoldingFileMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	proc := quarantine.New(cfg, st, nil, nil)
	ctx := context.Background()

	item := testsupport.NewPendingItem(t, st, "Ghost", "pending_gone.jpg", "gone.jpg")

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("dropping an orphaned row counts as work")
	}

	gone, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected row to be removed, got %#v", gone)
	}
}

func TestRunOncePromotesUntaggedOnInferenceFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	inferrer := &stubInferrer{err: errors.New("model offline")}
	proc := quarantine.New(cfg, st, inferrer, nil)
	ctx := context.Background()

	item := stageHolding(t, cfg, st, "pending_x2.png", testsupport.WritePNG)

	worked, err := proc.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if !worked {
		t.Fatal("expected work to be done")
	}

	promoted, err := st.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if promoted.Status != store.StatusActive {
		t.Fatalf("inference failure must not block promotion, got %s", promoted.Status)
	}
	tags, err := st.TagsForItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("TagsForItem failed: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}

func TestRunOnceProcessesOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	proc := quarantine.New(cfg, st, nil, nil)
	ctx := context.Background()

	first := stageHolding(t, cfg, st, "pending_a.jpg", testsupport.WriteJPEG)
	second := stageHolding(t, cfg, st, "pending_b.jpg", testsupport.WriteJPEG)

	if _, err := proc.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	got, err := st.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != store.StatusActive {
		t.Fatalf("expected oldest item promoted first, got %s", got.Status)
	}
	stillPending, err := st.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stillPending.Status != store.StatusPending {
		t.Fatalf("expected newer item untouched, got %s", stillPending.Status)
	}
}
