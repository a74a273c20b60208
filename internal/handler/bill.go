package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/trip"
)

type BillHandler struct {
	orch   *trip.Orchestrator
	logger *slog.Logger
}

func NewBillHandler(orch *trip.Orchestrator, logger *slog.Logger) *BillHandler {
	return &BillHandler{orch: orch, logger: logger}
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PayerID string  `json:"payer_id"`
		Item    string  `json:"item"`
		Amount  float64 `json:"amount"`
		Date    string  `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PayerID == "" || strings.TrimSpace(req.Item) == "" {
		writeError(w, http.StatusBadRequest, "payer_id and item are required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if err := h.orch.AddBill(req.PayerID, req.Item, req.Amount, req.Date); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if err := h.orch.DeleteBill(r.PathValue("id"), memberID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// Settlement returns the minimal transfer list that evens out the trip
// bills with an equal split across members.
func (h *BillHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	transfers := h.orch.Settlement()
	if transfers == nil {
		transfers = []model.Transfer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}
