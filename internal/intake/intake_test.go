package intake_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"galleria/internal/intake"
	"galleria/internal/store"
	"galleria/internal/testsupport"
)

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"summer_holiday-2.jpg", "Summer Holiday 2"},
		{"beach.png", "Beach"},
		{"my__photo.jpeg", "My Photo"},
		{"___.gif", "Untitled"},
		{"/tmp/uploads/city skyline.jpg", "City Skyline"},
	}
	for _, tc := range cases {
		if got := intake.TitleFromFilename(tc.in); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAdmitStagesFileAndCreatesRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	in := intake.New(cfg, st, nil)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "winter_cabin.jpg")
	testsupport.WriteJPEG(t, src, 40, 30)

	item, err := in.Admit(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if item.Title != "Winter Cabin" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Status != store.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if !strings.HasPrefix(item.Filename, "pending_") {
		t.Fatalf("expected holding name, got %q", item.Filename)
	}
	if item.OriginalFilename != "winter_cabin.jpg" {
		t.Fatalf("unexpected original filename %q", item.OriginalFilename)
	}

	staged := filepath.Join(cfg.Paths.QuarantineDir, item.Filename)
	if _, err := os.Stat(staged); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}
	// The source is copied, not moved.
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestAdmitRejectsUnsupportedType(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	in := intake.New(cfg, st, nil)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "notes.txt")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := in.Admit(context.Background(), src, 0); err == nil {
		t.Fatal("expected rejection of unsupported file type")
	}
}

func TestAdmitDirSkipsUnsupportedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	in := intake.New(cfg, st, nil)

	srcDir := t.TempDir()
	testsupport.WriteJPEG(t, filepath.Join(srcDir, "one.jpg"), 20, 20)
	testsupport.WritePNG(t, filepath.Join(srcDir, "two.png"), 20, 20)
	if err := os.WriteFile(filepath.Join(srcDir, "readme.md"), []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := in.AdmitDir(context.Background(), srcDir, 0)
	if err != nil {
		t.Fatalf("AdmitDir failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 admitted items, got %d", len(items))
	}
}
