/*
store.go - Persistence interfaces for schedules and clients

PURPOSE:
  Defines the narrow contracts between the engine and external storage.
  The core never performs multi-step read-modify-write against the store:
  reads return a consistent snapshot, and the only write is a wholesale
  year replacement.

KEY INTERFACES:
  Store:           scheduled-date persistence (read + replace-year)
  ClientDirectory: client records with their recurrence rules

REPLACE-YEAR CONTRACT:
  ReplaceYear must be atomic from a reader's perspective: a concurrent
  GetDates observes either the old complete year or the new complete year,
  never a partial interleaving. Dates belonging to other years are
  preserved untouched.

ERROR SEMANTICS:
  Store unavailability surfaces unchanged (wrapped with %w at most) - the
  engine never retries and never swallows store errors. Retry/backoff
  policy belongs to the calling layer.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - schedule/store/memory.go: in-memory for testing

SEE ALSO:
  - recalc.go: the only ReplaceYear caller in the engine
  - cache.go: read-through TTL cache over Store
*/
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/schedule-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrRuleNotConfigured is returned when a client has no rule for the
	// requested activity.
	ErrRuleNotConfigured = errors.New("no recurrence rule configured for activity")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached. The engine does not retry.
	ErrStoreUnavailable = errors.New("schedule store unavailable")
)

// NotFoundError identifies the missing client.
type NotFoundError struct {
	ClientID ClientID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("client %s not found", e.ClientID)
}

func (e *NotFoundError) Unwrap() error { return ErrClientNotFound }

// =============================================================================
// STORE - Scheduled date persistence
// =============================================================================

// Store persists scheduled dates. Reads return consistent snapshots;
// ReplaceYear is the only mutation and is atomic per (client, activity, year).
type Store interface {
	// GetDates returns a client's dates ordered by date ascending.
	// An empty activity matches all activities.
	GetDates(ctx context.Context, clientID ClientID, activity Activity) ([]ScheduledDate, error)

	// ReplaceYear atomically replaces the year's dates for a client
	// activity with the given ascending dates, assigning dense 1-based
	// positions. Dates in other years are untouched. Returns the count
	// written.
	ReplaceYear(ctx context.Context, clientID ClientID, activity Activity, year int, dates []ScheduledDateInput) (int, error)
}

// ScheduledDateInput is a date to be written by ReplaceYear. Positions are
// assigned by the store in ascending date order.
type ScheduledDateInput struct {
	Date     calendar.Date
	IsCustom bool
}

// =============================================================================
// CLIENT DIRECTORY
// =============================================================================

// ClientDirectory reads client records and their recurrence rules.
type ClientDirectory interface {
	// ListClients returns clients matching the filter, ordered by name.
	ListClients(ctx context.Context, filter ClientFilter) ([]Client, error)

	// GetClient returns one client or a NotFoundError.
	GetClient(ctx context.Context, id ClientID) (*Client, error)
}

// ClientWriter extends ClientDirectory with registration, for stores that
// own the directory (sqlite, memory). The engine itself only reads.
type ClientWriter interface {
	ClientDirectory

	// CreateClient registers a client and returns it with its assigned ID.
	CreateClient(ctx context.Context, client Client) (*Client, error)
}
