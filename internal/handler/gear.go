package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/push"
	"github.com/mchou/campnook/internal/trip"
)

type GearHandler struct {
	orch     *trip.Orchestrator
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewGearHandler(orch *trip.Orchestrator, notifier *push.Notifier, logger *slog.Logger) *GearHandler {
	return &GearHandler{orch: orch, notifier: notifier, logger: logger}
}

func (h *GearHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	gearID := r.PathValue("id")
	if err := h.orch.ClaimGear(gearID, req.MemberID); err != nil {
		writeTripError(w, err)
		return
	}
	data := h.orch.Snapshot()
	h.notifyClaim(data, gearID, req.MemberID)
	writeJSON(w, http.StatusOK, data)
}

// notifyClaim tells the other members that a piece of shared gear changed
// hands. Claims and releases both count.
func (h *GearHandler) notifyClaim(data *model.AppData, gearID, actorID string) {
	if h.notifier == nil {
		return
	}
	for i := range data.GearList {
		g := &data.GearList[i]
		if g.ID != gearID {
			continue
		}
		body := g.Name + " 已釋出認領"
		if g.Owner != nil {
			body = g.Owner.Name + " 認領了 " + g.Name
		}
		h.notifier.NotifyAll(actorID, push.Payload{
			Title: "裝備認領",
			Body:  body,
			Tag:   "gear-claim",
		})
		return
	}
}

func (h *GearHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
		TargetID string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	gearID := r.PathValue("id")
	if err := h.orch.AssignGear(gearID, req.MemberID, req.TargetID); err != nil {
		writeTripError(w, err)
		return
	}
	data := h.orch.Snapshot()
	if h.notifier != nil && req.TargetID != "" && req.TargetID != req.MemberID {
		for i := range data.GearList {
			if data.GearList[i].ID == gearID {
				h.notifier.NotifyMember(req.TargetID, push.Payload{
					Title: "裝備指派",
					Body:  "你被指派負責 " + data.GearList[i].Name,
					Tag:   "gear-assign",
				})
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, data)
}

// Presets returns the built-in gear catalog and the avatar pool for the
// add-gear and roster editors.
func (h *GearHandler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"gear_presets": trip.PresetGearCategories,
		"avatars":      trip.AvatarPool,
	})
}

func (h *GearHandler) TogglePacked(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if err := h.orch.TogglePersonalPacked(r.PathValue("id"), req.MemberID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *GearHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names    []string `json:"names"`
		Category string   `json:"category"`
		Required bool     `json:"required"`
		Custom   bool     `json:"custom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
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
	if err := h.orch.AddGear(names, req.Category, req.Required, req.Custom); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *GearHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	if err := h.orch.DeleteGear(r.PathValue("id"), memberID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// Suggest asks the advisor for gear the family is missing. Nothing is added
// to the list until someone reviews the suggestions.
func (h *GearHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.orch.SuggestGear(r.Context())
	if err != nil {
		writeTripError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
