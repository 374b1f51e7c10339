// Package main is the entrypoint of tasker.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasker/internal/cfg"
	"tasker/internal/times"
	"tasker/internal/utils/logging"
)

// errCycleFailed marks a --once run whose cycle recorded any error.
var errCycleFailed = errors.New("cycle finished with errors")

func main() {
	os.Exit(run())
}

// run executes the program and returns the process exit code.
func run() int {
	startTime := time.Now()

	// create cancellable context for shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()

	err := cfg.Execute(ctx, os.Args[1:], func(ctx context.Context, s cfg.Settings) error {
		if err := setupLogging(s); err != nil {
			return err
		}
		defer cleanup(startTime)

		logging.I("tasker (PID: %d) started at: %v", os.Getpid(), startTime.Format("2006-01-02 15:04:05.00 MST"))
		return schedule(ctx, s)
	})

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCycleFailed):
		return 1
	case errors.Is(err, context.Canceled):
		logging.I("Shutting down: %v", err)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "tasker exiting with error: %v\n", err)
		return 1
	}
}

// schedule waits for the first cycle, then runs one cycle or loops until ctx is done.
func schedule(ctx context.Context, s cfg.Settings) error {
	if !s.StartAt.IsZero() {
		if err := times.WaitUntil(ctx, s.StartAt); err != nil {
			return err
		}
	}
	if err := times.StartupWait(ctx, s.StartupJitter); err != nil {
		return err
	}

	cycle := newCycle(s)

	if s.RunOnce {
		if report := cycle.Run(ctx); report.Failed() {
			return errCycleFailed
		}
		return nil
	}

	return times.Loop(ctx, func(ctx context.Context) time.Duration {
		return cycle.Run(ctx).Wait
	})
}
