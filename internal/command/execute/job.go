// Package execute runs external tool invocations.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"tasker/internal/command/builder"
	"tasker/internal/models"
	"tasker/internal/utils/logging"
	"tasker/internal/validation"
)

// LaunchError is returned when the external tool could not be started.
type LaunchError struct {
	Bin string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.Bin, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitError is returned when the external tool ran but exited unsuccessfully.
type ExitError struct {
	Bin    string
	Code   int
	Status string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited unsuccessfully (%s)", e.Bin, e.Status)
}

// JobExecutor runs one external process per (download, profile) job.
type JobExecutor struct {
	builder *builder.JobCommandBuilder

	// Timeout bounds each process run. Zero waits indefinitely.
	Timeout time.Duration

	Stdout io.Writer
	Stderr io.Writer
}

// NewJobExecutor returns an executor that inherits the program's output streams.
func NewJobExecutor(binName, archiveDir string) *JobExecutor {
	return &JobExecutor{
		builder: builder.NewJobCommandBuilder(binName, archiveDir),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Execute runs the external tool for one job and waits for it to finish.
func (e *JobExecutor) Execute(ctx context.Context, d models.Download, p models.Profile) error {
	if p.ArchiveEnabled() {
		if _, err := validation.ValidateDirectory(e.builder.ArchiveDir, true); err != nil {
			return fmt.Errorf("failed to prepare archive directory: %w", err)
		}
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := e.builder.JobCommand(ctx, d, p)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	logging.I("Executing download command: %s", cmd.String())
	start := time.Now()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Bin:    e.builder.BinName,
				Code:   exitErr.ExitCode(),
				Status: exitErr.ProcessState.String(),
			}
		}
		return &LaunchError{Bin: e.builder.BinName, Err: err}
	}

	logging.D(1, "Download %q with profile %q finished in %v", d.Name, p.Name, time.Since(start).Round(time.Millisecond))
	return nil
}
