package main

import (
	"fmt"
	"os"

	"tasker/internal/app"
	"tasker/internal/cfg"
	"tasker/internal/remote"
	"tasker/internal/utils/logging"
)

// setupLogging configures the program logger from the settings.
func setupLogging(s cfg.Settings) error {
	logConfig := logging.Config{
		LogFilePath: s.LogFile,
		Console:     os.Stdout,
		Level:       s.DebugLevel,
	}
	if err := logging.SetupLogging(logConfig); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	return nil
}

// newCycle wires the cycle and its remote fetcher from the settings.
func newCycle(s cfg.Settings) *app.Cycle {
	fetcher := remote.NewFetcher()
	fetcher.Timeout = s.FetchTimeout
	fetcher.Parallelism = s.FetchConcurrency
	if s.CookiesFromBrowser {
		fetcher.Cookies = remote.NewBrowserCookies()
	}

	logging.D(1, "Config file: %q, archive directory: %q, fetch timeout: %v, exec timeout: %v, fetch concurrency: %d",
		s.ConfigFile, s.ArchiveDir, s.FetchTimeout, s.ExecTimeout, s.FetchConcurrency)

	return &app.Cycle{
		ConfigPath:  s.ConfigFile,
		ArchiveDir:  s.ArchiveDir,
		ExecTimeout: s.ExecTimeout,
		Fetcher:     fetcher,
	}
}
