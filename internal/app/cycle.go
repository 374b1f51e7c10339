package app

import (
	"context"
	"fmt"
	"time"

	"tasker/internal/command/execute"
	"tasker/internal/config"
	"tasker/internal/domain/consts"
	"tasker/internal/remote"
	"tasker/internal/tasks"
	"tasker/internal/times"
	"tasker/internal/utils/logging"

	"github.com/google/uuid"
)

// RemoteFetcher retrieves remote job sources in declaration order.
type RemoteFetcher interface {
	Fetch(ctx context.Context, urls []string) []remote.Result
}

// FetchError records a remote job source that could not be used this cycle.
type FetchError struct {
	URL string
	Err error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("remote jobs from %q: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// SourceReport holds the outcome of running one resolved job source.
type SourceReport struct {
	Source string
	Jobs   int
	Errors []JobError
}

// Report describes one completed cycle.
type Report struct {
	ID      string
	Elapsed time.Duration
	Wait    time.Duration

	// ConfigErr is set when the configuration failed to load; nothing ran.
	ConfigErr error

	// LocalErr is set when the local job source failed to resolve.
	LocalErr error

	FetchErrs []FetchError
	Sources   []SourceReport
}

// Failed reports whether anything in the cycle went wrong.
func (r *Report) Failed() bool {
	if r.ConfigErr != nil || r.LocalErr != nil || len(r.FetchErrs) > 0 {
		return true
	}
	for _, s := range r.Sources {
		if len(s.Errors) > 0 {
			return true
		}
	}
	return false
}

// Cycle performs one pass: load configuration, resolve and fetch job sources,
// run every job, and compute the wait before the next pass.
type Cycle struct {
	ConfigPath  string
	ArchiveDir  string
	ExecTimeout time.Duration
	Fetcher     RemoteFetcher

	// NewExecutor overrides the job executor, mainly for tests.
	NewExecutor func(binName string) JobExecutor

	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// localSource labels the local job source in logs and reports.
const localSource = "local config"

// Run performs one cycle. It never fails: every error is contained, logged and
// recorded in the report.
func (c *Cycle) Run(ctx context.Context) *Report {
	start := c.now()
	r := &Report{ID: uuid.NewString()}
	logging.I("Cycle %s started", r.ID)

	interval := c.runJobs(ctx, r)

	r.Elapsed = c.now().Sub(start)
	r.Wait = times.NextWait(interval, r.Elapsed)

	logging.I("Cycle %s finished in %v", r.ID, r.Elapsed.Round(time.Second))
	reportCycleSummary(r)
	return r
}

// reportCycleSummary repeats the failures that stopped a whole job source from
// running. Job failures are summarized per source by ReportSummary.
func reportCycleSummary(r *Report) {
	var lines []string
	if r.ConfigErr != nil {
		lines = append(lines, fmt.Sprintf("configuration: %v", r.ConfigErr))
	}
	if r.LocalErr != nil {
		lines = append(lines, fmt.Sprintf("%s skipped: %v", localSource, r.LocalErr))
	}
	for _, fe := range r.FetchErrs {
		lines = append(lines, fe.Error())
	}

	if len(lines) == 0 {
		return
	}
	logging.P("[%s] cycle %s: %d job source(s) could not run:", consts.RedFailed, r.ID, len(lines))
	for i, l := range lines {
		logging.P("  #%d %s", i+1, l)
	}
}

// runJobs does the work of one cycle and returns the interval to schedule from.
func (c *Cycle) runJobs(ctx context.Context, r *Report) time.Duration {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		r.ConfigErr = err
		logging.E("%v (retrying in %v)", err, consts.FallbackInterval)
		return consts.FallbackInterval
	}
	interval := times.Seconds(cfg.Interval)

	local, err := tasks.Resolve(cfg.TaskSource())
	if err != nil {
		r.LocalErr = err
		logging.E("Skipping %s jobs this cycle: %v", localSource, err)
	}

	var fetched []remote.Result
	if len(cfg.RemoteJob) > 0 && c.Fetcher != nil {
		fetched = c.Fetcher.Fetch(ctx, cfg.RemoteJob)
	}
	for _, res := range fetched {
		if res.Err != nil {
			r.FetchErrs = append(r.FetchErrs, FetchError{URL: res.URL, Err: res.Err})
		}
	}

	ex := c.executor(cfg.BinName)

	if local != nil {
		r.Sources = append(r.Sources, c.runSource(ctx, ex, localSource, local))
	}
	for _, res := range fetched {
		if res.Err != nil {
			continue
		}
		r.Sources = append(r.Sources, c.runSource(ctx, ex, res.URL, res.Tasks))
	}
	return interval
}

// runSource runs one job source and reports its summary.
func (c *Cycle) runSource(ctx context.Context, ex JobExecutor, source string, t *tasks.Tasks) SourceReport {
	logging.I("Running %d job(s) from %s", t.JobCount(), source)
	errs := RunAll(ctx, ex, source, t)
	ReportSummary(source, t.JobCount(), errs)

	return SourceReport{
		Source: source,
		Jobs:   t.JobCount(),
		Errors: errs,
	}
}

func (c *Cycle) executor(binName string) JobExecutor {
	if c.NewExecutor != nil {
		return c.NewExecutor(binName)
	}
	ex := execute.NewJobExecutor(binName, c.ArchiveDir)
	ex.Timeout = c.ExecTimeout
	return ex
}

func (c *Cycle) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
