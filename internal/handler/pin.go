package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mchou/campnook/internal/store"
)

type PinHandler struct {
	pins   *store.PinStore
	logger *slog.Logger
}

func NewPinHandler(pins *store.PinStore, logger *slog.Logger) *PinHandler {
	return &PinHandler{pins: pins, logger: logger}
}

func (h *PinHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}
	if err := h.pins.Set(r.PathValue("id"), req.PIN); err != nil {
		h.logger.Error("set pin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

// Verify checks a member's PIN. Members without a stored PIN always pass,
// which lets a fresh household log in before anyone sets one up.
func (h *PinHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ok, err := h.pins.Verify(r.PathValue("id"), req.PIN)
	if err != nil {
		h.logger.Error("verify pin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify PIN")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *PinHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.pins.Clear(r.PathValue("id")); err != nil {
		h.logger.Error("clear pin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
