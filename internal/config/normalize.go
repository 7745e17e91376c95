package config

import (
	"os"
	"strings"
)

// normalize expands path fields, applies environment overrides, and fills
// zero values with repository defaults so a partial config file still loads.
func (c *Config) normalize() error {
	if v := strings.TrimSpace(os.Getenv("GALLERIA_TAGGING_URL")); v != "" {
		c.Tagging.BaseURL = v
	}

	pathFields := []*string{
		&c.Paths.QuarantineDir,
		&c.Paths.MediaDir,
		&c.Paths.LogDir,
		&c.Paths.DatabasePath,
	}
	for _, field := range pathFields {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if c.Scheduler.LoadThreshold == 0 {
		c.Scheduler.LoadThreshold = defaultLoadThreshold
	}
	if c.Scheduler.IdleSleepSeconds == 0 {
		c.Scheduler.IdleSleepSeconds = defaultIdleSleepSeconds
	}
	if c.Scheduler.HighLoadSleepSeconds == 0 {
		c.Scheduler.HighLoadSleepSeconds = defaultHighLoadSleepSeconds
	}
	if c.Scheduler.YieldSleepMillis == 0 {
		c.Scheduler.YieldSleepMillis = defaultYieldSleepMillis
	}
	if c.Scheduler.CleanupIntervalSeconds == 0 {
		c.Scheduler.CleanupIntervalSeconds = defaultCleanupIntervalSeconds
	}

	c.Tagging.BaseURL = strings.TrimRight(strings.TrimSpace(c.Tagging.BaseURL), "/")
	c.Tagging.VisionModel = strings.TrimSpace(c.Tagging.VisionModel)
	c.Tagging.TextModel = strings.TrimSpace(c.Tagging.TextModel)
	if c.Tagging.DescribeTimeoutSeconds == 0 {
		c.Tagging.DescribeTimeoutSeconds = defaultDescribeTimeoutSeconds
	}
	if c.Tagging.ExtractTimeoutSeconds == 0 {
		c.Tagging.ExtractTimeoutSeconds = defaultExtractTimeoutSeconds
	}

	if c.Thumbnails.BoxSize == 0 {
		c.Thumbnails.BoxSize = defaultThumbnailBoxSize
	}
	if c.Thumbnails.Quality == 0 {
		c.Thumbnails.Quality = defaultThumbnailQuality
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
