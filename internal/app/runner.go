// Package app runs job sets and drives one scheduler cycle.
package app

import (
	"context"
	"fmt"

	"tasker/internal/domain/consts"
	"tasker/internal/models"
	"tasker/internal/tasks"
	"tasker/internal/utils/logging"
)

// JobExecutor runs one (download, profile) job.
type JobExecutor interface {
	Execute(ctx context.Context, d models.Download, p models.Profile) error
}

// JobError records a failed job.
type JobError struct {
	Source   string
	Download string
	Profile  string
	Err      error
}

func (e JobError) Error() string {
	return fmt.Sprintf("download %q with profile %q (%s): %v", e.Download, e.Profile, e.Source, e.Err)
}

func (e JobError) Unwrap() error {
	return e.Err
}

// RunAll executes every job in t: downloads in declaration order, and each
// download's profiles in declaration order. A failed job is logged and recorded,
// and the run continues with the next job.
func RunAll(ctx context.Context, ex JobExecutor, source string, t *tasks.Tasks) []JobError {
	var errs []JobError

	for _, d := range t.Downloads() {
		for _, name := range d.Profiles {
			if ctx.Err() != nil {
				logging.W("Run of %s interrupted, skipping remaining jobs", source)
				return errs
			}

			p, ok := t.Profile(name)
			if !ok {
				panic(fmt.Sprintf("resolved tasks from %s missing profile %q for download %q", source, name, d.Name))
			}

			logging.I("Running download %q with profile %q", d.Name, p.Name)
			if err := ex.Execute(ctx, d, p); err != nil {
				je := JobError{
					Source:   source,
					Download: d.Name,
					Profile:  p.Name,
					Err:      err,
				}
				logging.E("Job failed: %v", je)
				errs = append(errs, je)
				continue
			}
			logging.S("Finished download %q with profile %q", d.Name, p.Name)
		}
	}
	return errs
}

// ReportSummary logs the end-of-run summary for one job source.
func ReportSummary(source string, jobs int, errs []JobError) {
	if len(errs) == 0 {
		logging.P("[%s] %s: %d job(s) succeeded", consts.GreenSuccess, source, jobs)
		return
	}

	logging.P("[%s] %s: %d of %d job(s) failed:", consts.RedFailed, source, len(errs), jobs)
	for i, e := range errs {
		logging.P("  #%d download %q, profile %q: %v", i+1, e.Download, e.Profile, e.Err)
	}
}
