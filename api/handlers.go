/*
handlers.go - HTTP API handlers for the scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clients:
    GET    /api/clients                       List clients (filterable)
    POST   /api/clients                       Register client with rules
    GET    /api/clients/{id}                  Client details
    GET    /api/clients/{id}/dates            Scheduled dates
    POST   /api/clients/{id}/recalculate      Recalculate one activity year

  Anomalies:
    GET    /api/anomalies?year=&month=        Monthly anomaly report

  Calendar:
    GET    /api/holidays?year=&month=         Holiday table slice
    GET    /api/weeks?year=&month=            Incomplete-week analysis

  Admin:
    POST   /api/admin/recalculate             Batch recalculation
    POST   /api/admin/seed                    Load demo fixture set

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Client not found
  - 502: Store unavailable
  - 500: Internal errors
  "No anomalies found" is a 200 with empty lists, never an error; only
  "could not load data" maps to a failure status.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/schedule-engine/anomaly"
	"github.com/warp/schedule-engine/calendar"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/recurrence"
	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     schedule.Store
	Directory schedule.ClientWriter
	Holidays  *calendar.Table
	Factory   *factory.Factory
	Recalc    *schedule.Recalculator
	Detector  *anomaly.Detector
	Log       zerolog.Logger
}

// NewHandler wires a handler over the given store and directory.
func NewHandler(store schedule.Store, directory schedule.ClientWriter, holidays *calendar.Table, log zerolog.Logger) *Handler {
	return &Handler{
		Store:     store,
		Directory: directory,
		Holidays:  holidays,
		Factory:   factory.New(),
		Recalc:    &schedule.Recalculator{Store: store, Directory: directory, Log: log},
		Detector:  &anomaly.Detector{Store: store, Directory: directory, Holidays: holidays},
		Log:       log,
	}
}

// =============================================================================
// CLIENT ENDPOINTS
// =============================================================================

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	filter := schedule.ClientFilter{
		Country: r.URL.Query().Get("country"),
		Region:  r.URL.Query().Get("region"),
		Type:    r.URL.Query().Get("type"),
	}
	clients, err := h.Directory.ListClients(r.Context(), filter)
	if err != nil {
		writeStoreError(w, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, toClientDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}

	rules := make(map[schedule.Activity]recurrence.Rule, len(req.Rules))
	for activity, cfg := range req.Rules {
		rule, err := h.Factory.FromConfig(cfg)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid rule for activity "+activity, err)
			return
		}
		rules[schedule.Activity(activity)] = rule
	}

	client, err := h.Directory.CreateClient(r.Context(), schedule.Client{
		ID:      schedule.ClientID(req.ID),
		Name:    req.Name,
		Country: req.Country,
		Type:    req.Type,
		Region:  req.Region,
		Rules:   rules,
	})
	if err != nil {
		writeStoreError(w, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(*client))
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := schedule.ClientID(chi.URLParam(r, "id"))
	client, err := h.Directory.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, schedule.ErrClientNotFound) {
			writeError(w, http.StatusNotFound, "Client not found", nil)
			return
		}
		writeStoreError(w, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(*client))
}

func (h *Handler) GetDates(w http.ResponseWriter, r *http.Request) {
	id := schedule.ClientID(chi.URLParam(r, "id"))
	activity := schedule.Activity(r.URL.Query().Get("activity"))

	dates, err := h.Store.GetDates(r.Context(), id, activity)
	if err != nil {
		writeStoreError(w, "Failed to load dates", err)
		return
	}

	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		filtered := dates[:0]
		for _, d := range dates {
			if d.Date.Year() == year {
				filtered = append(filtered, d)
			}
		}
		dates = filtered
	}
	writeJSON(w, http.StatusOK, toScheduledDateDTOs(dates))
}

// =============================================================================
// RECALCULATION ENDPOINTS
// =============================================================================

func (h *Handler) RecalculateClient(w http.ResponseWriter, r *http.Request) {
	id := schedule.ClientID(chi.URLParam(r, "id"))

	var req RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "Year is required", nil)
		return
	}
	if req.Activity == "" {
		writeError(w, http.StatusBadRequest, "Activity is required", nil)
		return
	}

	written, err := h.Recalc.Recalculate(r.Context(), id, schedule.Activity(req.Activity), req.Year)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrClientNotFound):
			writeError(w, http.StatusNotFound, "Client not found", nil)
		case errors.Is(err, schedule.ErrRuleNotConfigured),
			errors.Is(err, recurrence.ErrInvalidRule),
			errors.Is(err, recurrence.ErrUnsupportedRuleType):
			writeError(w, http.StatusBadRequest, "Cannot recalculate", err)
		default:
			writeStoreError(w, "Recalculation failed", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, RecalculateResponse{
		ClientID: string(id),
		Activity: req.Activity,
		Year:     req.Year,
		Written:  written,
	})
}

func (h *Handler) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	var req BatchRecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "Year is required", nil)
		return
	}

	filter := schedule.ClientFilter{Country: req.Country, Region: req.Region, Type: req.Type}
	result, err := h.Recalc.RecalculateAll(r.Context(), filter, req.Year)
	if err != nil {
		writeStoreError(w, "Batch recalculation failed", err)
		return
	}

	resp := BatchRecalculateResponse{
		Clients: result.Clients,
		Written: result.Written,
		Failed:  result.Failed,
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, f.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// ANOMALY ENDPOINT
// =============================================================================

func (h *Handler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	report, err := h.Detector.Detect(r.Context(), year, month)
	if err != nil {
		writeStoreError(w, "Failed to load schedule data", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnomalyReportDTO(report))
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	holidays := h.Holidays.InMonth(year, month)
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, HolidayDTO{Date: hol.Date.String(), Description: hol.Description})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetWeekInfo(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekInfoDTO(calendar.AnalyzeMonth(year, month)))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func yearMonthParams(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 {
		return 0, 0, errors.New("month must be in [1,12]")
	}
	return year, time.Month(month), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError distinguishes "could not load data" from other failures.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, schedule.ErrStoreUnavailable) {
		status = http.StatusBadGateway
	}
	writeError(w, status, message, err)
}
