// Package cfgflags registers and binds command-line flags.
package cfgflags

import (
	"tasker/internal/domain/consts"
	"tasker/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InitProgramFlags initializes the flags controlling the scheduler itself.
func InitProgramFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	f := rootCmd.PersistentFlags()

	// Files and directories
	f.StringP(keys.ConfigFile, "c", consts.DefaultConfigFile, "Job configuration file (TOML, or YAML by extension), re-read every cycle")
	f.String(keys.ArchiveDir, consts.DefaultArchiveDir, "Directory holding download archive files")
	f.String(keys.EnvFile, consts.DefaultEnvFile, "Optional .env file loaded before reading TASKER_* variables")

	// Scheduling
	f.Bool(keys.RunOnce, false, "Run a single cycle and exit (non-zero exit if anything failed)")
	f.Int(keys.StartupJitter, 0, "Wait a random 0 to N minutes before the first cycle")
	f.String(keys.StartAt, "", "Delay the first cycle until this date/time (e.g. '2026-01-02 03:00')")

	// Execution
	f.Duration(keys.ExecTimeout, 0, "Kill a job after this long (0 waits indefinitely)")

	// Remote jobs
	f.Duration(keys.FetchTimeout, 0, "Timeout for each remote job request (0 waits indefinitely)")
	f.Int(keys.FetchConcurrency, consts.DefaultFetchParallel, "Maximum concurrent remote job requests")
	f.Bool(keys.CookiesFromBrowser, false, "Attach cookies from local browsers to remote job requests")

	return bindFlags(v, f,
		keys.ConfigFile,
		keys.ArchiveDir,
		keys.EnvFile,
		keys.RunOnce,
		keys.StartupJitter,
		keys.StartAt,
		keys.ExecTimeout,
		keys.FetchTimeout,
		keys.FetchConcurrency,
		keys.CookiesFromBrowser,
	)
}

// InitLoggingFlags initializes the logging flags.
func InitLoggingFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	f := rootCmd.PersistentFlags()

	f.Int(keys.DebugLevel, 0, "Debugging level (0 - 5)")
	f.String(keys.LogFile, "", "Also write JSON logs to this file")

	return bindFlags(v, f, keys.DebugLevel, keys.LogFile)
}
