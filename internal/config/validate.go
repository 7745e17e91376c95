package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateTagging(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.QuarantineDir) == "" {
		return errors.New("paths.quarantine_dir must be set")
	}
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.QuarantineDir == c.Paths.MediaDir {
		return errors.New("paths.quarantine_dir and paths.media_dir must be distinct directories")
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.LoadThreshold < 0 {
		return errors.New("scheduler.load_threshold must be >= 0")
	}
	if err := ensurePositiveMap(map[string]int{
		"scheduler.idle_sleep_seconds":       c.Scheduler.IdleSleepSeconds,
		"scheduler.high_load_sleep_seconds":  c.Scheduler.HighLoadSleepSeconds,
		"scheduler.yield_sleep_millis":       c.Scheduler.YieldSleepMillis,
		"scheduler.cleanup_interval_seconds": c.Scheduler.CleanupIntervalSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTagging() error {
	if !c.Tagging.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Tagging.BaseURL) == "" {
		return errors.New("tagging.base_url must be set when tagging.enabled is true")
	}
	if strings.TrimSpace(c.Tagging.VisionModel) == "" {
		return errors.New("tagging.vision_model must be set when tagging.enabled is true")
	}
	if strings.TrimSpace(c.Tagging.TextModel) == "" {
		return errors.New("tagging.text_model must be set when tagging.enabled is true")
	}
	return ensurePositiveMap(map[string]int{
		"tagging.describe_timeout_seconds": c.Tagging.DescribeTimeoutSeconds,
		"tagging.extract_timeout_seconds":  c.Tagging.ExtractTimeoutSeconds,
	})
}

func (c *Config) validateThumbnails() error {
	if c.Thumbnails.BoxSize <= 0 {
		return errors.New("thumbnails.box_size must be positive")
	}
	if c.Thumbnails.Quality < 1 || c.Thumbnails.Quality > 100 {
		return errors.New("thumbnails.quality must be between 1 and 100")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
