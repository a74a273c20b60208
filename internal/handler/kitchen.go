package handler

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mchou/campnook/internal/trip"
)

const maxImageBytes = 8 << 20

type KitchenHandler struct {
	orch   *trip.Orchestrator
	logger *slog.Logger
}

func NewKitchenHandler(orch *trip.Orchestrator, logger *slog.Logger) *KitchenHandler {
	return &KitchenHandler{orch: orch, logger: logger}
}

func (h *KitchenHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names   []string `json:"names"`
		OwnerID string   `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	names := req.Names[:0]
	for _, n := range req.Names {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "at least one name is required")
		return
	}
	if err := h.orch.AddIngredients(names, req.OwnerID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// Identify runs a fridge photo through the advisor and adds whatever it
// recognizes for the given owner.
func (h *KitchenHandler) Identify(w http.ResponseWriter, r *http.Request) {
	image, mimeType, ownerID, ok := decodeImageRequest(w, r)
	if !ok {
		return
	}
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	names, err := h.orch.IdentifyIngredients(r.Context(), image, mimeType, ownerID)
	if err != nil {
		writeTripError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ingredients": names})
}

func (h *KitchenHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.ToggleIngredient(r.PathValue("id")); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *KitchenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if err := h.orch.DeleteIngredient(r.PathValue("id"), memberID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *KitchenHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
		OwnerID  string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MemberID == "" || req.OwnerID == "" {
		writeError(w, http.StatusBadRequest, "member_id and owner_id are required")
		return
	}
	if err := h.orch.ReassignIngredient(r.PathValue("id"), req.MemberID, req.OwnerID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// decodeImageRequest parses the shared JSON shape for photo endpoints:
// base64 image data plus its MIME type. It writes the error response itself
// and reports whether the caller should proceed.
func decodeImageRequest(w http.ResponseWriter, r *http.Request) (image []byte, mimeType, ownerID string, ok bool) {
	var req struct {
		Image    string `json:"image"`
		MimeType string `json:"mime_type"`
		OwnerID  string `json:"owner_id"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImageBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, "", "", false
	}
	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return nil, "", "", false
	}
	if req.MimeType == "" {
		req.MimeType = "image/jpeg"
	}
	raw, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image must be base64 encoded")
		return nil, "", "", false
	}
	return raw, req.MimeType, req.OwnerID, true
}
