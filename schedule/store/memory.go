// Package store provides in-memory schedule.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	dates   map[key][]schedule.ScheduledDate
	clients map[schedule.ClientID]schedule.Client
}

type key struct {
	ClientID schedule.ClientID
	Activity schedule.Activity
}

func NewMemory() *Memory {
	return &Memory{
		dates:   make(map[key][]schedule.ScheduledDate),
		clients: make(map[schedule.ClientID]schedule.Client),
	}
}

// GetDates returns the client's dates ascending. Empty activity matches all.
func (m *Memory) GetDates(_ context.Context, clientID schedule.ClientID, activity schedule.Activity) ([]schedule.ScheduledDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.ScheduledDate
	if activity != "" {
		result = append(result, m.dates[key{clientID, activity}]...)
	} else {
		for k, ds := range m.dates {
			if k.ClientID == clientID {
				result = append(result, ds...)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// ReplaceYear swaps one year's dates under the write lock, so readers see
// either the old or the new complete set.
func (m *Memory) ReplaceYear(_ context.Context, clientID schedule.ClientID, activity schedule.Activity, year int, inputs []schedule.ScheduledDateInput) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{clientID, activity}

	// Keep other years untouched.
	var kept []schedule.ScheduledDate
	for _, d := range m.dates[k] {
		if d.Date.Year() != year {
			kept = append(kept, d)
		}
	}

	sorted := make([]schedule.ScheduledDateInput, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for i, in := range sorted {
		kept = append(kept, schedule.ScheduledDate{
			ClientID: clientID,
			Activity: activity,
			Position: i + 1,
			Date:     in.Date,
			IsCustom: in.IsCustom,
		})
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })
	m.dates[k] = kept
	return len(sorted), nil
}

// =============================================================================
// CLIENT DIRECTORY
// =============================================================================

func (m *Memory) ListClients(_ context.Context, filter schedule.ClientFilter) ([]schedule.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []schedule.Client
	for _, c := range m.clients {
		if filter.Matches(c) {
			result = append(result, copyClient(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) GetClient(_ context.Context, id schedule.ClientID) (*schedule.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, &schedule.NotFoundError{ClientID: id}
	}
	out := copyClient(c)
	return &out, nil
}

func (m *Memory) CreateClient(_ context.Context, client schedule.Client) (*schedule.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client.ID == "" {
		client.ID = schedule.ClientID(uuid.NewString())
	}
	m.clients[client.ID] = copyClient(client)
	out := copyClient(client)
	return &out, nil
}

func copyClient(c schedule.Client) schedule.Client {
	out := c
	out.Rules = make(map[schedule.Activity]recurrence.Rule, len(c.Rules))
	for k, v := range c.Rules {
		out.Rules[k] = v
	}
	return out
}
