package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	QuarantineDir string `toml:"quarantine_dir"`
	MediaDir      string `toml:"media_dir"`
	LogDir        string `toml:"log_dir"`
	DatabasePath  string `toml:"database_path"`
}

// Scheduler contains configuration for the maintenance loop timing.
type Scheduler struct {
	LoadThreshold          float64 `toml:"load_threshold"`
	IdleSleepSeconds       int     `toml:"idle_sleep_seconds"`
	HighLoadSleepSeconds   int     `toml:"high_load_sleep_seconds"`
	YieldSleepMillis       int     `toml:"yield_sleep_millis"`
	CleanupIntervalSeconds int     `toml:"cleanup_interval_seconds"`
}

// Tagging contains configuration for the local inference service used
// for automatic tag generation.
type Tagging struct {
	Enabled                bool   `toml:"enabled"`
	BaseURL                string `toml:"base_url"`
	VisionModel            string `toml:"vision_model"`
	TextModel              string `toml:"text_model"`
	DescribeTimeoutSeconds int    `toml:"describe_timeout_seconds"`
	ExtractTimeoutSeconds  int    `toml:"extract_timeout_seconds"`
}

// Thumbnails contains configuration for thumbnail rendering.
type Thumbnails struct {
	BoxSize int `toml:"box_size"`
	Quality int `toml:"quality"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Galleria.
//
// Configuration sections by subsystem:
//   - Paths: quarantine/media directories and the SQLite database path
//   - Scheduler: load threshold and sleep intervals for the daemon loop
//   - Tagging: local inference endpoint and the two model names
//   - Thumbnails: rendered thumbnail geometry and quality
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Scheduler  Scheduler  `toml:"scheduler"`
	Tagging    Tagging    `toml:"tagging"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/galleria/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("galleria.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// The quarantine and media directories must both exist before any work runs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.QuarantineDir,
		c.Paths.MediaDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.DatabasePath),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
