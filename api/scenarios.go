/*
scenarios.go - Demo fixture loading

PURPOSE:
  Loads a small, deterministic set of clients with recurrence rules and
  recalculates their schedules for a target year, so a fresh instance has
  data to explore. Dev/demo convenience only; production directories are
  populated through the client API or upstream sync.

SEE ALSO:
  - handlers.go: route registration
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
)

// LoadSeedRequest selects the year the seed schedules are computed for.
type LoadSeedRequest struct {
	Year int `json:"year"`
}

// LoadSeedResponse reports what the seed created.
type LoadSeedResponse struct {
	Clients int `json:"clients"`
	Written int `json:"written"`
}

// LoadSeed registers the demo clients and recalculates their schedules.
func (h *Handler) LoadSeed(w http.ResponseWriter, r *http.Request) {
	// An empty body means "seed for the current year".
	var req LoadSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = calendar.Today().Year()
	}

	seeds := seedClients()
	written := 0
	for _, c := range seeds {
		created, err := h.Directory.CreateClient(r.Context(), c)
		if err != nil {
			writeStoreError(w, "Failed to seed client "+c.Name, err)
			return
		}
		for activity := range created.Rules {
			n, err := h.Recalc.Recalculate(r.Context(), created.ID, activity, req.Year)
			if err != nil {
				writeStoreError(w, "Failed to recalculate seed client "+c.Name, err)
				return
			}
			written += n
		}
	}

	writeJSON(w, http.StatusOK, LoadSeedResponse{Clients: len(seeds), Written: written})
}

func seedClients() []schedule.Client {
	secondFourthWed := mustRule(recurrence.NewNthWeekday(calendar.Wednesday, 2, 4))
	firstThirdMon := mustRule(recurrence.NewNthWeekday(calendar.Monday, 1, 3))
	tenthAndLast := mustRule(recurrence.NewSpecificDays(10, 31))

	return []schedule.Client{
		{
			ID:      "demo-atlantica",
			Name:    "Atlantica Foods",
			Country: "ES",
			Type:    "retail",
			Region:  "north",
			Rules: map[schedule.Activity]recurrence.Rule{
				schedule.ActivityDispatchComplete: secondFourthWed,
				schedule.ActivityDelivery:         secondFourthWed,
			},
		},
		{
			ID:      "demo-borealis",
			Name:    "Borealis Logistics",
			Country: "ES",
			Type:    "wholesale",
			Region:  "east",
			Rules: map[schedule.Activity]recurrence.Rule{
				schedule.ActivityDispatchComplete: firstThirdMon,
				schedule.ActivityDelivery:         firstThirdMon,
				schedule.ActivityInvoicing:        tenthAndLast,
			},
		},
		{
			ID:      "demo-cardamomo",
			Name:    "Cardamomo Imports",
			Country: "PT",
			Type:    "retail",
			Region:  "south",
			Rules: map[schedule.Activity]recurrence.Rule{
				schedule.ActivityPurchaseOrder: tenthAndLast,
			},
		},
	}
}

func mustRule(r recurrence.Rule, err error) recurrence.Rule {
	if err != nil {
		panic(err)
	}
	return r
}
