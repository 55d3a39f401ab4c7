package handlers

import (
	"net/http"

	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/services"
)

// CompletionHandler handles HTTP requests for the completion ledger.
type CompletionHandler struct {
	service services.CompletionServiceProvider
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(service services.CompletionServiceProvider) *CompletionHandler {
	return &CompletionHandler{service: service}
}

// CompletionPayload is the body of POST /api/completions.
type CompletionPayload struct {
	HabitID   int64  `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// GetAll lists the caller's completions. The startDate and endDate query
// parameters filter to an inclusive range when both are present.
func (h *CompletionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var rng *models.DateRange
	if start, end := q.Get("startDate"), q.Get("endDate"); start != "" && end != "" {
		rng = &models.DateRange{Start: start, End: end}
	}

	completions, err := h.service.ListCompletions(r.Context(), accountID(r), rng)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

// Record sets the completed flag for one habit on one date.
func (h *CompletionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var payload CompletionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Habit ID and date are required")
		return
	}

	err := h.service.RecordCompletion(r.Context(), accountID(r), payload.HabitID, payload.Date, payload.Completed)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			invalidInput: "Habit ID and date are required",
			notFound:     "Habit not found",
			storage:      "Error updating completion",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Completion updated successfully"})
}
