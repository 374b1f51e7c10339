// Package consts holds program-wide constants and defaults.
package consts

import "time"

// Job configuration defaults.
const (
	DefaultBinName       = "yt-dlp"
	DefaultIntervalSecs  = 82800
	DefaultConfigFile    = "config.toml"
	DefaultArchiveDir    = "archives"
	DefaultEnvFile       = ".env"
	DefaultFetchParallel = 4
)

// Scheduling.
const (
	// FallbackInterval replaces the configured interval for a cycle whose configuration failed to load.
	FallbackInterval = 300 * time.Second

	// MinCycleWait is the floor applied to every computed wait between cycles.
	MinCycleWait = 120 * time.Second
)

// External tool flags.
const (
	DownloadArchiveFlag = "--download-archive"
	ArchiveFileExt      = ".txt"
)

// Program messages.
const (
	TimeRemainingMsg = ColorCyan + "Time remaining:" + ColorReset
	ProgramName      = "tasker"
	UserAgent        = ProgramName + " (remote job fetcher)"
)
