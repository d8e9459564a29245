/*
Package schedule defines the scheduling domain model and store contracts.

PURPOSE:
  This package holds what the engine persists and reads back: scheduled
  dates per (client, activity, year), the client directory records that
  carry each client's recurrence rules, and the narrow interfaces the core
  uses to reach external storage. It also provides the recalculation
  orchestration and a TTL cache decorator over the store.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClientID / Activity: type-safe identifiers
  - ScheduledDate: one positioned calendar date in a client's series
  - Client: directory record with recurrence rules per activity

POSITION SEMANTICS:
  Positions are a dense 1-based sequence in ascending date order within a
  (client, activity, year). They pair dispatch-complete dates with delivery
  dates for the ordering check. Recalculating one year renumbers only that
  year.

SEE ALSO:
  - store.go: Store and ClientDirectory interfaces
  - recalc.go: recalculation orchestration
  - cache.go: TTL cache decorator
*/
package schedule

import (
	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/recurrence"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ClientID string

// Activity names a recurring logistics event stream for a client.
type Activity string

const (
	// ActivityDispatchComplete marks goods dispatched/consolidated.
	ActivityDispatchComplete Activity = "dispatch_complete"

	// ActivityDelivery marks final delivery completion.
	ActivityDelivery Activity = "delivery"

	// ActivityInvoicing marks invoice issuance.
	ActivityInvoicing Activity = "invoicing"

	// ActivityPurchaseOrder marks purchase-order issuance.
	ActivityPurchaseOrder Activity = "purchase_order"
)

// =============================================================================
// SCHEDULED DATE
// =============================================================================

// ScheduledDate is one computed (or hand-placed) date in a client's
// activity series. (ClientID, Activity, Date.Year(), Position) is unique.
type ScheduledDate struct {
	ClientID ClientID
	Activity Activity
	Position int
	Date     calendar.Date
	IsCustom bool
}

// =============================================================================
// CLIENT DIRECTORY RECORDS
// =============================================================================

// Client is a directory record with its recurrence rules keyed by activity.
type Client struct {
	ID      ClientID
	Name    string
	Country string
	Type    string
	Region  string
	Rules   map[Activity]recurrence.Rule
}

// RuleFor returns the client's rule for an activity, if configured.
func (c Client) RuleFor(activity Activity) (recurrence.Rule, bool) {
	r, ok := c.Rules[activity]
	return r, ok
}

// ClientFilter narrows directory listings. Zero values match everything.
type ClientFilter struct {
	Country string
	Region  string
	Type    string
}

// Matches reports whether the client satisfies every set filter field.
func (f ClientFilter) Matches(c Client) bool {
	if f.Country != "" && f.Country != c.Country {
		return false
	}
	if f.Region != "" && f.Region != c.Region {
		return false
	}
	if f.Type != "" && f.Type != c.Type {
		return false
	}
	return true
}
