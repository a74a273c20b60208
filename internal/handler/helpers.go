package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mchou/campnook/internal/trip"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeTripError maps orchestrator errors onto HTTP status codes. Anything
// unrecognized is treated as a server fault.
func writeTripError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrGearTaken), errors.Is(err, trip.ErrIngredientLocked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trip.ErrNotOwner), errors.Is(err, trip.ErrNotAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, trip.ErrNoSelection):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNoAdvisor):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeDocument responds with the current trip document. Mutating endpoints
// use this so clients can replace their local state in one round trip.
func writeDocument(w http.ResponseWriter, o *trip.Orchestrator) {
	writeJSON(w, http.StatusOK, o.Snapshot())
}
