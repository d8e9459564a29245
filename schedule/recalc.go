/*
recalc.go - Schedule recalculation orchestration

PURPOSE:
  Recalculation is "evaluate, then fully replace the year": the client's
  rule for an activity is evaluated for the target year and the resulting
  dates replace that year's positions wholesale. The store guarantees the
  replacement is atomic; this layer never does partial writes.

BATCH SEMANTICS:
  RecalculateAll walks the directory with bounded concurrency. Clients are
  independent, so one client failing must not abort the rest: failures are
  logged, collected, and reported in the batch result. This is the one
  place "log and continue" is allowed - single recalculations and the pure
  evaluator always surface errors.

SEE ALSO:
  - recurrence/evaluate.go: the pure evaluation this orchestrates
  - store.go: ReplaceYear contract
*/
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/warp/schedule-engine/recurrence"
)

// =============================================================================
// RECALCULATOR
// =============================================================================

// Recalculator replaces stored schedule years from recurrence rules.
type Recalculator struct {
	Store     Store
	Directory ClientDirectory
	Log       zerolog.Logger

	// MaxParallel bounds batch concurrency. Zero means 4.
	MaxParallel int
}

// Recalculate evaluates the client's rule for the activity and replaces
// the year's dates. Returns the number of dates written.
func (r *Recalculator) Recalculate(ctx context.Context, clientID ClientID, activity Activity, year int) (int, error) {
	client, err := r.Directory.GetClient(ctx, clientID)
	if err != nil {
		return 0, err
	}

	rule, ok := client.RuleFor(activity)
	if !ok {
		return 0, fmt.Errorf("%w: client %s activity %s", ErrRuleNotConfigured, clientID, activity)
	}

	dates, err := recurrence.Evaluate(rule, year)
	if err != nil {
		return 0, err
	}

	inputs := make([]ScheduledDateInput, len(dates))
	for i, d := range dates {
		inputs[i] = ScheduledDateInput{Date: d}
	}
	return r.Store.ReplaceYear(ctx, clientID, activity, year, inputs)
}

// =============================================================================
// BATCH RECALCULATION
// =============================================================================

// BatchResult summarizes a directory-wide recalculation.
type BatchResult struct {
	Clients  int
	Written  int
	Failed   int
	Failures []BatchFailure
}

// BatchFailure records one client/activity that could not be recalculated.
type BatchFailure struct {
	ClientID ClientID
	Activity Activity
	Err      error
}

func (f BatchFailure) Error() string {
	return fmt.Sprintf("client %s activity %s: %v", f.ClientID, f.Activity, f.Err)
}

// RecalculateAll recalculates every configured activity of every client
// matching the filter. Per-client failures are collected, not fatal;
// directory unavailability is.
func (r *Recalculator) RecalculateAll(ctx context.Context, filter ClientFilter, year int) (BatchResult, error) {
	clients, err := r.Directory.ListClients(ctx, filter)
	if err != nil {
		return BatchResult{}, err
	}

	limit := r.MaxParallel
	if limit <= 0 {
		limit = 4
	}

	var (
		mu     sync.Mutex
		result = BatchResult{Clients: len(clients)}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, client := range clients {
		client := client
		g.Go(func() error {
			for activity := range client.Rules {
				written, err := r.Recalculate(ctx, client.ID, activity, year)

				mu.Lock()
				if err != nil {
					result.Failed++
					result.Failures = append(result.Failures, BatchFailure{
						ClientID: client.ID, Activity: activity, Err: err,
					})
					mu.Unlock()
					r.Log.Warn().
						Str("client", string(client.ID)).
						Str("activity", string(activity)).
						Int("year", year).
						Err(err).
						Msg("recalculation failed, continuing batch")
					continue
				}
				result.Written += written
				mu.Unlock()
			}
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	r.Log.Info().
		Int("clients", result.Clients).
		Int("written", result.Written).
		Int("failed", result.Failed).
		Int("year", year).
		Msg("batch recalculation complete")
	return result, nil
}
