package handler

import (
	"log/slog"
	"net/http"

	"github.com/mchou/campnook/internal/store"
	"github.com/mchou/campnook/internal/trip"
)

type DocumentHandler struct {
	orch   *trip.Orchestrator
	pins   *store.PinStore
	logger *slog.Logger
}

func NewDocumentHandler(orch *trip.Orchestrator, pins *store.PinStore, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{orch: orch, pins: pins, logger: logger}
}

// Get returns the full trip document. Member PIN flags live in the local
// database, not the shared document, so they are stamped on here.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	data := h.orch.Snapshot()
	for i := range data.Members {
		has, err := h.pins.Has(data.Members[i].ID)
		if err != nil {
			h.logger.Warn("pin lookup failed", "member", data.Members[i].ID, "error", err)
			continue
		}
		data.Members[i].HasPIN = has
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *DocumentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	phase := r.URL.Query().Get("phase")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if phase != trip.PhaseDeparture && phase != trip.PhaseReturn {
		writeError(w, http.StatusBadRequest, "phase must be departure or return")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"member_id": memberID,
		"phase":     phase,
		"percent":   h.orch.Progress(memberID, phase),
	})
}
