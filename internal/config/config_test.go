package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"galleria/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, got exists=true for %s", path)
	}
	if cfg.Scheduler.LoadThreshold != 5.0 {
		t.Fatalf("expected default load threshold, got %v", cfg.Scheduler.LoadThreshold)
	}
	if cfg.Tagging.VisionModel != "moondream" {
		t.Fatalf("expected default vision model, got %q", cfg.Tagging.VisionModel)
	}
	if !filepath.IsAbs(cfg.Paths.MediaDir) {
		t.Fatalf("expected absolute media dir, got %q", cfg.Paths.MediaDir)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
quarantine_dir = "` + filepath.Join(dir, "holding") + `"
media_dir = "` + filepath.Join(dir, "public") + `"

[scheduler]
idle_sleep_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if cfg.Scheduler.IdleSleepSeconds != 5 {
		t.Fatalf("expected idle sleep override, got %d", cfg.Scheduler.IdleSleepSeconds)
	}
	if cfg.Scheduler.CleanupIntervalSeconds != 3600 {
		t.Fatalf("expected default cleanup interval, got %d", cfg.Scheduler.CleanupIntervalSeconds)
	}
	if cfg.Paths.QuarantineDir != filepath.Join(dir, "holding") {
		t.Fatalf("unexpected quarantine dir %q", cfg.Paths.QuarantineDir)
	}
}

func TestValidateRejectsSharedDirectories(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.QuarantineDir = "/tmp/galleria-shared"
	cfg.Paths.MediaDir = "/tmp/galleria-shared"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "distinct") {
		t.Fatalf("expected distinct-directory error, got %v", err)
	}
}

func TestValidateRejectsBadThumbnailQuality(t *testing.T) {
	cfg := config.Default()
	cfg.Thumbnails.Quality = 250
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range thumbnail quality")
	}
}

func TestValidateTaggingRequiresModelsWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Tagging.VisionModel = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when vision model missing")
	}

	cfg = config.Default()
	cfg.Tagging.Enabled = false
	cfg.Tagging.VisionModel = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled tagging should skip model validation: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.QuarantineDir = filepath.Join(dir, "holding")
	cfg.Paths.MediaDir = filepath.Join(dir, "public")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.DatabasePath = filepath.Join(dir, "state", "galleria.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.QuarantineDir, cfg.Paths.MediaDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.DatabasePath)} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", d, err)
		}
	}
}
