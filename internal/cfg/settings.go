package cfg

import (
	"fmt"
	"strings"
	"time"

	"tasker/internal/domain/keys"
	"tasker/internal/times"

	"github.com/spf13/viper"
)

// Settings holds the process-level options for one scheduler run.
type Settings struct {
	ConfigFile string
	ArchiveDir string
	RunOnce    bool

	FetchTimeout       time.Duration
	ExecTimeout        time.Duration
	FetchConcurrency   int
	CookiesFromBrowser bool

	// StartupJitter is in minutes.
	StartupJitter int

	// StartAt is zero when the first cycle starts immediately.
	StartAt time.Time

	DebugLevel int
	LogFile    string
}

// settingsFromViper reads and validates the bound flags and environment.
func settingsFromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		ConfigFile:         strings.TrimSpace(v.GetString(keys.ConfigFile)),
		ArchiveDir:         strings.TrimSpace(v.GetString(keys.ArchiveDir)),
		RunOnce:            v.GetBool(keys.RunOnce),
		FetchTimeout:       v.GetDuration(keys.FetchTimeout),
		ExecTimeout:        v.GetDuration(keys.ExecTimeout),
		FetchConcurrency:   v.GetInt(keys.FetchConcurrency),
		CookiesFromBrowser: v.GetBool(keys.CookiesFromBrowser),
		StartupJitter:      v.GetInt(keys.StartupJitter),
		DebugLevel:         v.GetInt(keys.DebugLevel),
		LogFile:            strings.TrimSpace(v.GetString(keys.LogFile)),
	}

	switch {
	case s.ConfigFile == "":
		return Settings{}, fmt.Errorf("--%s must not be empty", keys.ConfigFile)
	case s.ArchiveDir == "":
		return Settings{}, fmt.Errorf("--%s must not be empty", keys.ArchiveDir)
	case s.FetchTimeout < 0:
		return Settings{}, fmt.Errorf("--%s must not be negative, got %v", keys.FetchTimeout, s.FetchTimeout)
	case s.ExecTimeout < 0:
		return Settings{}, fmt.Errorf("--%s must not be negative, got %v", keys.ExecTimeout, s.ExecTimeout)
	case s.FetchConcurrency < 1:
		return Settings{}, fmt.Errorf("--%s must be at least 1, got %d", keys.FetchConcurrency, s.FetchConcurrency)
	case s.StartupJitter < 0:
		return Settings{}, fmt.Errorf("--%s must not be negative, got %d", keys.StartupJitter, s.StartupJitter)
	case s.DebugLevel < 0 || s.DebugLevel > 5:
		return Settings{}, fmt.Errorf("--%s must be between 0 and 5, got %d", keys.DebugLevel, s.DebugLevel)
	}

	if raw := strings.TrimSpace(v.GetString(keys.StartAt)); raw != "" {
		t, err := times.ParseStartAt(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("--%s: %w", keys.StartAt, err)
		}
		s.StartAt = t
	}
	return s, nil
}
