// Package times provides scheduling arithmetic and context-aware waits.
package times

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"tasker/internal/domain/consts"
	"tasker/internal/utils/logging"

	"github.com/araddon/dateparse"
)

// CountdownOut receives the countdown shown while waiting for the first cycle.
var CountdownOut io.Writer = os.Stdout

// NextWait returns the wait before the next cycle.
//
// The interval is measured start-to-start, so the cycle's own run time is
// subtracted. The result never drops below consts.MinCycleWait, including when a
// cycle overran the interval.
func NextWait(interval, elapsed time.Duration) time.Duration {
	return max(interval-elapsed, consts.MinCycleWait)
}

// Loop runs cycle, sleeps for the wait it returns, and repeats until ctx is done.
func Loop(ctx context.Context, cycle func(context.Context) time.Duration) error {
	for {
		wait := cycle(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := WaitTime(ctx, wait, "next cycle"); err != nil {
			return err
		}
	}
}

// WaitTime waits for d, returning early with an error if ctx is cancelled.
func WaitTime(ctx context.Context, d time.Duration, reason string) error {
	if d <= 0 {
		return nil
	}
	logging.I("Sleeping %v before %s (at %s)", d.Round(time.Second), reason,
		time.Now().Add(d).Format(time.DateTime))

	waitTimer := time.NewTimer(d)
	defer waitTimer.Stop()

	select {
	case <-waitTimer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for %s: %w", reason, ctx.Err())
	}
}

// StartupWait adds a random 0 to maxMins minute wait before the first cycle.
func StartupWait(ctx context.Context, maxMins int) error {
	if maxMins <= 0 {
		return nil
	}
	return waitWithCountdown(ctx, RandomMinsDuration(maxMins), "first cycle (startup jitter)")
}

// WaitUntil waits until the wall-clock time t. Times in the past return immediately.
func WaitUntil(ctx context.Context, t time.Time) error {
	return waitWithCountdown(ctx, time.Until(t), "first cycle (start-at "+t.Format(time.DateTime)+")")
}

// waitWithCountdown is WaitTime with a live time-remaining line on the console.
func waitWithCountdown(ctx context.Context, d time.Duration, reason string) error {
	if d <= 0 {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	end := time.Now().Add(d)

	go func() {
		defer close(done)
		ticker := time.NewTicker(consts.CountdownTickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				remaining := time.Until(end)
				if remaining <= 0 {
					fmt.Fprint(CountdownOut, consts.ClearLine)
					return
				}
				m := int(remaining.Minutes())
				s := int(remaining.Seconds()) % 60
				fmt.Fprintf(CountdownOut, "%s%s %dm%ds", consts.ClearLine, consts.TimeRemainingMsg, m, s)
			case <-stop:
				fmt.Fprint(CountdownOut, consts.ClearLine)
				return
			}
		}
	}()

	err := WaitTime(ctx, d, reason)
	close(stop)
	<-done
	return err
}

// ParseStartAt parses a free-form local date/time, e.g. "2026-10-17 03:00" or "Oct 17, 2026 3am".
func ParseStartAt(s string) (time.Time, error) {
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return t, nil
}

// RandomMinsDuration returns a random duration between 0 and m minutes.
func RandomMinsDuration(m int) time.Duration {
	if m <= 0 {
		return 0
	}
	return time.Duration(rand.IntN(m+1)) * time.Minute
}

// Seconds converts a whole number of seconds to a duration.
func Seconds(s int64) time.Duration {
	return time.Duration(s) * time.Second
}
