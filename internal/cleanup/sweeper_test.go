package cleanup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"galleria/internal/cleanup"
	"galleria/internal/testsupport"
)

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item := testsupport.NewPendingItem(t, st, "Kept", "kept.jpg", "kept.jpg")
	item.ThumbnailFilename = "thumb_kept.jpg"
	if err := st.Activate(ctx, item, nil); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	for _, name := range []string{"kept.jpg", "thumb_kept.jpg", "orphan.jpg", "thumb_orphan.jpg"} {
		if err := os.WriteFile(filepath.Join(cfg.Paths.MediaDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.MediaDir, ".nomedia"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := cleanup.New(cfg, st, nil).Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}

	for _, name := range []string{"kept.jpg", "thumb_kept.jpg", ".nomedia"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.MediaDir, name)); err != nil {
			t.Errorf("%s should survive the sweep: %v", name, err)
		}
	}
	for _, name := range []string{"orphan.jpg", "thumb_orphan.jpg"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.MediaDir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed, stat err=%v", name, err)
		}
	}
}

func TestSweepEmptyDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	removed, err := cleanup.New(cfg, st, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected no removals, got %d", removed)
	}
}

func TestSweepKeepsPendingReferences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	// Pending rows reference quarantine holding names; if one ever shares a
	// name with a media file, the sweep must not delete it.
	testsupport.NewPendingItem(t, st, "P", "pending_keep.jpg", "keep.jpg")
	if err := os.WriteFile(filepath.Join(cfg.Paths.MediaDir, "pending_keep.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := cleanup.New(cfg, st, nil).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected no removals, got %d", removed)
	}
}
