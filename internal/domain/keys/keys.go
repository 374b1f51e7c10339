// Package keys holds the viper keys and flag names.
package keys

// Terminal keys
const (
	ConfigFile         string = "config"
	ArchiveDir         string = "archive-dir"
	RunOnce            string = "once"
	FetchTimeout       string = "fetch-timeout"
	ExecTimeout        string = "exec-timeout"
	FetchConcurrency   string = "fetch-concurrency"
	CookiesFromBrowser string = "cookies-from-browser"
	StartupJitter      string = "startup-jitter"
	StartAt            string = "start-at"
	EnvFile            string = "env-file"
)

// Logging
const (
	DebugLevel string = "debug"
	LogFile    string = "log-file"
)

// Environment
const (
	EnvPrefix string = "TASKER"
)
