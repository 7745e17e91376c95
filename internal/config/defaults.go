package config

const (
	defaultQuarantineDir = "~/.local/share/galleria/quarantine"
	defaultMediaDir      = "~/.local/share/galleria/media"
	defaultLogDir        = "~/.local/share/galleria/logs"
	defaultDatabasePath  = "~/.local/share/galleria/galleria.db"

	defaultLoadThreshold          = 5.0
	defaultIdleSleepSeconds       = 30
	defaultHighLoadSleepSeconds   = 10
	defaultYieldSleepMillis       = 500
	defaultCleanupIntervalSeconds = 3600

	defaultTaggingBaseURL         = "http://localhost:11434"
	defaultVisionModel            = "moondream"
	defaultTextModel              = "gemma3:1b"
	defaultDescribeTimeoutSeconds = 300
	defaultExtractTimeoutSeconds  = 60

	defaultThumbnailBoxSize = 300
	defaultThumbnailQuality = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			QuarantineDir: defaultQuarantineDir,
			MediaDir:      defaultMediaDir,
			LogDir:        defaultLogDir,
			DatabasePath:  defaultDatabasePath,
		},
		Scheduler: Scheduler{
			LoadThreshold:          defaultLoadThreshold,
			IdleSleepSeconds:       defaultIdleSleepSeconds,
			HighLoadSleepSeconds:   defaultHighLoadSleepSeconds,
			YieldSleepMillis:       defaultYieldSleepMillis,
			CleanupIntervalSeconds: defaultCleanupIntervalSeconds,
		},
		Tagging: Tagging{
			Enabled:                true,
			BaseURL:                defaultTaggingBaseURL,
			VisionModel:            defaultVisionModel,
			TextModel:              defaultTextModel,
			DescribeTimeoutSeconds: defaultDescribeTimeoutSeconds,
			ExtractTimeoutSeconds:  defaultExtractTimeoutSeconds,
		},
		Thumbnails: Thumbnails{
			BoxSize: defaultThumbnailBoxSize,
			Quality: defaultThumbnailQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
