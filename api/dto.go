/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing field
  renaming without breaking clients and API-specific validation.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rule.go: RuleJSON config type
*/
package api

import (
	"sort"

	"github.com/warp/schedule-engine/anomaly"
	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// CLIENT TYPES
// =============================================================================

// ClientDTO represents a client in API responses.
type ClientDTO struct {
	ID      string                      `json:"id"`
	Name    string                      `json:"name"`
	Country string                      `json:"country,omitempty"`
	Type    string                      `json:"type,omitempty"`
	Region  string                      `json:"region,omitempty"`
	Rules   map[string]factory.RuleJSON `json:"rules,omitempty"`
}

// CreateClientRequest is the request to register a client.
type CreateClientRequest struct {
	ID      string                      `json:"id"`
	Name    string                      `json:"name"`
	Country string                      `json:"country"`
	Type    string                      `json:"type"`
	Region  string                      `json:"region"`
	Rules   map[string]factory.RuleJSON `json:"rules"`
}

func toClientDTO(c schedule.Client) ClientDTO {
	dto := ClientDTO{
		ID:      string(c.ID),
		Name:    c.Name,
		Country: c.Country,
		Type:    c.Type,
		Region:  c.Region,
	}
	if len(c.Rules) > 0 {
		dto.Rules = make(map[string]factory.RuleJSON, len(c.Rules))
		for activity, rule := range c.Rules {
			cfg := factory.RuleJSON{Type: string(rule.Type)}
			if rule.HasWeekday() {
				wd := int(rule.Weekday)
				cfg.Weekday = &wd
				cfg.Occurrences = rule.Occurrences
			} else {
				cfg.Days = rule.Days
			}
			dto.Rules[string(activity)] = cfg
		}
	}
	return dto
}

// =============================================================================
// SCHEDULE TYPES
// =============================================================================

// ScheduledDateDTO represents one positioned date.
type ScheduledDateDTO struct {
	Activity string `json:"activity"`
	Position int    `json:"position"`
	Date     string `json:"date"`
	IsCustom bool   `json:"is_custom,omitempty"`
}

func toScheduledDateDTOs(dates []schedule.ScheduledDate) []ScheduledDateDTO {
	out := make([]ScheduledDateDTO, 0, len(dates))
	for _, d := range dates {
		out = append(out, ScheduledDateDTO{
			Activity: string(d.Activity),
			Position: d.Position,
			Date:     d.Date.String(),
			IsCustom: d.IsCustom,
		})
	}
	return out
}

// RecalculateRequest selects what to recalculate.
type RecalculateRequest struct {
	Activity string `json:"activity"`
	Year     int    `json:"year"`
}

// RecalculateResponse reports the replacement outcome.
type RecalculateResponse struct {
	ClientID string `json:"client_id"`
	Activity string `json:"activity"`
	Year     int    `json:"year"`
	Written  int    `json:"written"`
}

// BatchRecalculateRequest selects a directory-wide recalculation.
type BatchRecalculateRequest struct {
	Year    int    `json:"year"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	Type    string `json:"type,omitempty"`
}

// BatchRecalculateResponse summarizes a batch run.
type BatchRecalculateResponse struct {
	Clients  int      `json:"clients"`
	Written  int      `json:"written"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
}

// =============================================================================
// ANOMALY TYPES
// =============================================================================

// OrderAnomalyDTO is one dispatch-after-delivery finding.
type OrderAnomalyDTO struct {
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	Position     int    `json:"position"`
	DispatchDate string `json:"dispatch_date"`
	DeliveryDate string `json:"delivery_date"`
}

// IncompleteWeekAnomalyDTO is one truncated-week finding.
type IncompleteWeekAnomalyDTO struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	Reason     string `json:"reason"`
}

// HolidayAnomalyDTO is one holiday-collision finding.
type HolidayAnomalyDTO struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Date       string `json:"date"`
	Holiday    string `json:"holiday"`
	Reason     string `json:"reason"`
}

// AnomalyReportDTO is the monthly report.
type AnomalyReportDTO struct {
	Year                 int                        `json:"year"`
	Month                int                        `json:"month"`
	Ordering             []OrderAnomalyDTO          `json:"ordering"`
	IncompleteWeeks      []IncompleteWeekAnomalyDTO `json:"incomplete_weeks"`
	Holidays             []HolidayAnomalyDTO        `json:"holidays"`
	TotalAffectedClients int                        `json:"total_affected_clients"`
	AffectedShare        string                     `json:"affected_share"`
}

func toAnomalyReportDTO(r *anomaly.Report) AnomalyReportDTO {
	dto := AnomalyReportDTO{
		Year:                 r.Year,
		Month:                int(r.Month),
		Ordering:             []OrderAnomalyDTO{},
		IncompleteWeeks:      []IncompleteWeekAnomalyDTO{},
		Holidays:             []HolidayAnomalyDTO{},
		TotalAffectedClients: r.TotalAffectedClients,
		AffectedShare:        r.AffectedShare.String(),
	}
	for _, a := range r.Ordering {
		dto.Ordering = append(dto.Ordering, OrderAnomalyDTO{
			ClientID:     string(a.ClientID),
			ClientName:   a.ClientName,
			Position:     a.Position,
			DispatchDate: a.DispatchDate.String(),
			DeliveryDate: a.DeliveryDate.String(),
		})
	}
	for _, a := range r.IncompleteWeeks {
		dto.IncompleteWeeks = append(dto.IncompleteWeeks, IncompleteWeekAnomalyDTO{
			ClientID:   string(a.ClientID),
			ClientName: a.ClientName,
			Date:       a.Date.String(),
			Weekday:    a.Weekday.String(),
			Reason:     a.Reason,
		})
	}
	for _, a := range r.Holidays {
		dto.Holidays = append(dto.Holidays, HolidayAnomalyDTO{
			ClientID:   string(a.ClientID),
			ClientName: a.ClientName,
			Date:       a.Date.String(),
			Holiday:    a.HolidayDescription,
			Reason:     a.Reason,
		})
	}
	return dto
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// HolidayDTO represents one holiday.
type HolidayDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// WeekInfoDTO represents the incomplete-week analysis of a month.
type WeekInfoDTO struct {
	Year             int      `json:"year"`
	Month            int      `json:"month"`
	FirstWeekMissing []string `json:"first_week_missing"`
	FirstWeekPresent []string `json:"first_week_present"`
	LastWeekMissing  []string `json:"last_week_missing"`
	LastWeekPresent  []string `json:"last_week_present"`
	AffectedWeekdays []string `json:"affected_weekdays"`
}

func toWeekInfoDTO(info calendar.IncompleteWeekInfo) WeekInfoDTO {
	dto := WeekInfoDTO{
		Year:             info.Year,
		Month:            int(info.Month),
		FirstWeekMissing: weekdayNames(info.FirstWeekMissing),
		FirstWeekPresent: weekdayNames(info.FirstWeekPresent),
		LastWeekMissing:  weekdayNames(info.LastWeekMissing),
		LastWeekPresent:  weekdayNames(info.LastWeekPresent),
		AffectedWeekdays: []string{},
	}
	var affected []calendar.Weekday
	for w := range info.AffectedWeekdays {
		affected = append(affected, w)
	}
	sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })
	dto.AffectedWeekdays = weekdayNames(affected)
	return dto
}

func weekdayNames(ws []calendar.Weekday) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.String())
	}
	return out
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
