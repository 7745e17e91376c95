package testsupport

import (
	"path/filepath"
	"testing"

	"galleria/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "galleria.db")
	cfg.Tagging.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithTagging enables tag inference against the provided endpoint.
func WithTagging(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tagging.Enabled = true
		cfg.Tagging.BaseURL = baseURL
	}
}

// WithThumbnailBox overrides the thumbnail box size.
func WithThumbnailBox(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Thumbnails.BoxSize = size
	}
}
