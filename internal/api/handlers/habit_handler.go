package handlers

import (
	"net/http"

	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/services"
)

// HabitHandler handles HTTP requests related to habits.
type HabitHandler struct {
	service services.HabitServiceProvider
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(service services.HabitServiceProvider) *HabitHandler {
	return &HabitHandler{service: service}
}

const habitNotFoundMsg = "Habit not found"

// GetAll handles the request to list the caller's habits.
func (h *HabitHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	habits, err := h.service.ListHabits(r.Context(), accountID(r))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// Create handles the request to create a new habit.
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.HabitInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.service.CreateHabit(r.Context(), accountID(r), input)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			invalidInput: "Habit name is required",
			notFound:     "User not found",
			storage:      "Error creating habit",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      id,
		"message": "Habit created successfully",
	})
}

// Update handles the request to update a habit owned by the caller.
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	habitID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, habitNotFoundMsg)
		return
	}

	var input models.HabitInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateHabit(r.Context(), accountID(r), habitID, input); err != nil {
		writeServiceError(w, r, err, errorMessages{
			invalidInput: "Habit name is required",
			notFound:     habitNotFoundMsg,
			storage:      "Error updating habit",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Habit updated successfully"})
}

// Delete handles the request to delete a habit owned by the caller.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	habitID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, habitNotFoundMsg)
		return
	}

	if err := h.service.DeleteHabit(r.Context(), accountID(r), habitID); err != nil {
		writeServiceError(w, r, err, errorMessages{
			notFound: habitNotFoundMsg,
			storage:  "Error deleting habit",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted successfully"})
}
