package api

import (
	"context"
	"net/http"

	"github.com/goodtune/apptime/internal/activity"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Ledger is the part of activity.Ledger the API serves.
type Ledger interface {
	Sample(ctx context.Context) (string, bool, error)
	Summarize() (*activity.Stats, error)
	ResetToday(ctx context.Context) error
	Days() ([]string, error)
	History(day string) (*activity.DayUsage, bool, error)
}

// ActivityHandler handles activity API requests.
type ActivityHandler struct {
	ledger Ledger
	logger zerolog.Logger
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(ledger Ledger, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		ledger: ledger,
		logger: logger.With().Str("handler", "activity").Logger(),
	}
}

// Stats returns ranked usage for today and all time.
func (h *ActivityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledger.Summarize()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to summarize activity")
		writeError(w, http.StatusInternalServerError, "Failed to summarize activity")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Sample takes one sample immediately.
func (h *ActivityHandler) Sample(w http.ResponseWriter, r *http.Request) {
	app, ok, err := h.ledger.Sample(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sample activity")
		writeError(w, http.StatusInternalServerError, "Failed to sample activity")
		return
	}

	var current *string
	if ok {
		current = &app
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"app": current,
	})
}

// Reset archives and clears today's counters.
func (h *ActivityHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ResetToday(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to reset activity")
		writeError(w, http.StatusInternalServerError, "Failed to reset activity")
		return
	}

	h.logger.Info().Str("remote", r.RemoteAddr).Msg("Today's activity reset via API")
	w.WriteHeader(http.StatusNoContent)
}

// ListDays returns the archived day identifiers.
func (h *ActivityHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.ledger.Days()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list history")
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":  days,
		"count": len(days),
	})
}

// GetDay returns the ranked usage of one archived day.
func (h *ActivityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	day := mux.Vars(r)["day"]

	usage, ok, err := h.ledger.History(day)
	if err != nil {
		h.logger.Error().Err(err).Str("day", day).Msg("Failed to get history day")
		writeError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Day not found")
		return
	}

	writeJSON(w, http.StatusOK, usage)
}
