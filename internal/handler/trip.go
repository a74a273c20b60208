package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mchou/campnook/internal/model"
	"github.com/mchou/campnook/internal/store"
	"github.com/mchou/campnook/internal/trip"
	"github.com/mchou/campnook/internal/weather"
)

type TripHandler struct {
	orch    *trip.Orchestrator
	weather *weather.Service
	pins    *store.PinStore
	logger  *slog.Logger
}

func NewTripHandler(orch *trip.Orchestrator, weatherSvc *weather.Service, pins *store.PinStore, logger *slog.Logger) *TripHandler {
	return &TripHandler{orch: orch, weather: weatherSvc, pins: pins, logger: logger}
}

func (h *TripHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Date     string `json:"date"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.orch.UpdateTripInfo(req.Title, req.Date, req.Location); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *TripHandler) SetAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.orch.SetAlbumURL(req.URL); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// Weather refreshes the campsite forecast and stamps it into the trip
// document so everyone sees the same numbers.
func (h *TripHandler) Weather(w http.ResponseWriter, r *http.Request) {
	fc := h.weather.GetForecast()
	if !fc.Configured {
		writeError(w, http.StatusServiceUnavailable, "weather is not configured")
		return
	}
	if !fc.Available {
		writeError(w, http.StatusBadGateway, "weather service unavailable")
		return
	}
	if err := h.orch.SetWeather(&model.Weather{
		Temp:      fc.Temp,
		Condition: fc.Desc,
		Icon:      fc.Icon,
		Advice:    fc.Advice,
	}); err != nil {
		writeTripError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (h *TripHandler) SetCheckMark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
		Key      string `json:"key"`
		Checked  bool   `json:"checked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MemberID == "" || req.Key == "" {
		writeError(w, http.StatusBadRequest, "member_id and key are required")
		return
	}
	if err := h.orch.SetCheckMark(req.MemberID, r.PathValue("phase"), req.Key, req.Checked); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *TripHandler) UpdateMembers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActorID string         `json:"actor_id"`
		Members []model.Member `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ActorID == "" {
		writeError(w, http.StatusBadRequest, "actor_id is required")
		return
	}
	if len(req.Members) == 0 {
		writeError(w, http.StatusBadRequest, "members must not be empty")
		return
	}
	if err := h.orch.UpdateMembers(req.ActorID, req.Members); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

// ElevateMember grants admin after checking the member's PIN. Members
// without a stored PIN pass, so a fresh household can appoint its first
// admin before anyone sets one up.
func (h *TripHandler) ElevateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	memberID := r.PathValue("id")
	ok, err := h.pins.Verify(memberID, req.PIN)
	if err != nil {
		h.logger.Error("verify pin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify PIN")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}
	if err := h.orch.ElevateMember(memberID); err != nil {
		writeTripError(w, err)
		return
	}
	writeDocument(w, h.orch)
}

func (h *TripHandler) Reset(w http.ResponseWriter, r *http.Request) {
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
	if err := h.orch.ResetTrip(req.MemberID); err != nil {
		writeTripError(w, err)
		return
	}
	h.logger.Info("trip reset", "actor", req.MemberID)
	writeDocument(w, h.orch)
}
