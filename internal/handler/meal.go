package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/push"
	"github.com/mchou/campnook/internal/trip"
)

type MealHandler struct {
	orch     *trip.Orchestrator
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewMealHandler(orch *trip.Orchestrator, notifier *push.Notifier, logger *slog.Logger) *MealHandler {
	return &MealHandler{orch: orch, notifier: notifier, logger: logger}
}

// Generate builds meal plans for one day and meal slot from the
// currently selected ingredients. The advisor call can take a while, so
// the request context bounds it.
func (h *MealHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day      int    `json:"day"`
		MealType string `json:"meal_type"`
		Adults   int    `json:"adults"`
		Children int    `json:"children"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	switch req.MealType {
	case "", model.MealBreakfast, model.MealLunch, model.MealDinner:
	default:
		writeError(w, http.StatusBadRequest, "unknown meal type")
		return
	}
	params := trip.MealRequest{
		Day:      req.Day,
		MealType: req.MealType,
		Adults:   req.Adults,
		Children: req.Children,
	}
	if err := h.orch.GenerateMealPlans(r.Context(), params); err != nil {
		writeTripError(w, err)
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyAll("", push.Payload{
			Title: "菜單更新",
			Body:  "新的露營菜單出爐了，快來看看！",
			Tag:   "meal-plans",
		})
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) Rescue(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.RescueLeftovers(r.Context()); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) ImportItinerary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if err := h.orch.ImportItinerary(r.Context(), req.Text); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) ImportMenu(w http.ResponseWriter, r *http.Request) {
	image, mimeType, _, ok := decodeImageRequest(w, r)
	if !ok {
		return
	}
	if err := h.orch.ImportMenuImage(r.Context(), image, mimeType); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.AutofillDish(r.Context(), r.PathValue("id")); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayLabel string `json:"day_label"`
		MealType string `json:"meal_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := h.orch.AddBlankPlan(req.DayLabel, req.MealType)
	if err != nil {
		writeTripError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "document": h.orch.Snapshot()})
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		MenuName string `json:"menu_name"`
		DayLabel string `json:"day_label"`
		MealType string `json:"meal_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.orch.UpdatePlanDetails(r.PathValue("id"), req.Title, req.MenuName, req.DayLabel, req.MealType); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.orch.UpdatePlanNotes(r.PathValue("id"), req.Notes); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.DeleteMealPlan(r.PathValue("id")); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.ToggleCheckItem(r.PathValue("id"), r.PathValue("item_id")); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		OwnerName   string `json:"owner_name"`
		OwnerAvatar string `json:"owner_avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	var owner *model.CheckOwner
	if req.OwnerName != "" {
		owner = &model.CheckOwner{Name: req.OwnerName, Avatar: req.OwnerAvatar}
	}
	if err := h.orch.AddCheckItem(r.PathValue("id"), req.Name, owner); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// UpdateItem replaces a checklist line's name and owner. An empty
// owner_name leaves the line unassigned.
func (h *MealHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		OwnerName   string `json:"owner_name"`
		OwnerAvatar string `json:"owner_avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	var owner *model.CheckOwner
	if req.OwnerName != "" {
		owner = &model.CheckOwner{Name: req.OwnerName, Avatar: req.OwnerAvatar}
	}
	if err := h.orch.UpdateCheckItem(r.PathValue("id"), r.PathValue("item_id"), req.Name, owner); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *MealHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.DeleteCheckItem(r.PathValue("id"), r.PathValue("item_id")); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}
