/*
scheduler.go - Background recalculation job

PURPOSE:
  Keeps stored schedules current without operator intervention: on a cron
  expression (default: monthly, first day at 02:00) the job recalculates
  every client's activities for the current and upcoming year. Clients
  added mid-year pick up their schedules at the next run at the latest.

DESIGN:
  - robfig/cron drives the timing; the job body is the same batch
    recalculation the admin endpoint uses.
  - Per-client failures are logged and skipped (independent items);
    directory unavailability aborts the run and is retried at the next
    tick.

USAGE:
  job := NewRecalculationJob(recalc, logger)
  job.Start("0 2 1 * *")
  // ... later
  job.Stop()

SEE ALSO:
  - schedule/recalc.go: RecalculateAll
  - handlers.go: the manual trigger endpoint
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/warp/schedule-engine/schedule"
)

// RecalculationJob runs scheduled directory-wide recalculations.
type RecalculationJob struct {
	Recalc *schedule.Recalculator
	Log    zerolog.Logger

	cron *cron.Cron
}

// NewRecalculationJob creates a job around the given recalculator.
func NewRecalculationJob(recalc *schedule.Recalculator, log zerolog.Logger) *RecalculationJob {
	return &RecalculationJob{Recalc: recalc, Log: log}
}

// Start schedules the job with a standard 5-field cron spec.
func (j *RecalculationJob) Start(spec string) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(spec, j.RunNow); err != nil {
		return err
	}
	j.cron.Start()
	j.Log.Info().Str("spec", spec).Msg("recalculation job started")
	return nil
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (j *RecalculationJob) Stop() {
	if j.cron == nil {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.Log.Info().Msg("recalculation job stopped")
}

// RunNow executes one recalculation pass for this year and the next.
func (j *RecalculationJob) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	currentYear := time.Now().Year()
	for _, year := range []int{currentYear, currentYear + 1} {
		result, err := j.Recalc.RecalculateAll(ctx, schedule.ClientFilter{}, year)
		if err != nil {
			j.Log.Error().Int("year", year).Err(err).Msg("scheduled recalculation aborted")
			return
		}
		j.Log.Info().
			Int("year", year).
			Int("clients", result.Clients).
			Int("written", result.Written).
			Int("failed", result.Failed).
			Msg("scheduled recalculation pass done")
	}
}
