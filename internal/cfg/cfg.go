// Package cfg provides the command-line interface and process settings for tasker.
package cfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	cfgflags "tasker/internal/cfg/flags"
	"tasker/internal/domain/consts"
	"tasker/internal/domain/keys"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFunc runs the program with validated settings.
type RunFunc func(ctx context.Context, s Settings) error

// NewRootCmd builds the root command. run is invoked once flags and environment
// have been read and validated.
func NewRootCmd(run RunFunc) (*cobra.Command, error) {
	v := viper.New()
	v.SetEnvPrefix(keys.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // "archive-dir" reads TASKER_ARCHIVE_DIR
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   consts.ProgramName,
		Short: "tasker periodically runs yt-dlp download jobs from local and remote job files.",
		Long: "tasker reads a job configuration every cycle, resolves each download against its\n" +
			"named profiles, and runs the downloader once per (download, profile) pair.\n" +
			"Options may also be set as TASKER_* environment variables or in a .env file.\n" +
			"Remote job requests also honor colly's COLLY_* variables (e.g. COLLY_USER_AGENT,\n" +
			"COLLY_MAX_BODY_SIZE), which override the fetcher's own settings when set.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFromViper(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), s)
		},
	}

	if err := cfgflags.InitProgramFlags(rootCmd, v); err != nil {
		return nil, err
	}
	if err := cfgflags.InitLoggingFlags(rootCmd, v); err != nil {
		return nil, err
	}
	return rootCmd, nil
}

// Execute parses args and runs the program.
func Execute(ctx context.Context, args []string, run RunFunc) error {
	rootCmd, err := NewRootCmd(run)
	if err != nil {
		return err
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// loadEnvFile loads the .env file into the process environment.
//
// A missing default file is ignored; a missing file passed explicitly is an error.
// Variables already set in the environment are not overridden.
func loadEnvFile(cmd *cobra.Command, v *viper.Viper) error {
	path := v.GetString(keys.EnvFile)
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed(keys.EnvFile) {
			return nil
		}
		return fmt.Errorf("could not load env file %q: %w", path, err)
	}
	return nil
}
