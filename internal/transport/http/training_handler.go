package http

import (
	"encoding/json"
	"net/http"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type TrainingHandler struct {
	training *app.TrainingService
}

func NewTrainingHandler(training *app.TrainingService) *TrainingHandler {
	return &TrainingHandler{training: training}
}

func (h *TrainingHandler) RegisterDrillRoutes(r chi.Router) {
	r.Get("/", h.ListDrills)
	r.Get("/{id}", h.GetDrill)
	r.Post("/{id}/check", h.CheckDrill)
}

func (h *TrainingHandler) RegisterMissionRoutes(r chi.Router) {
	r.Post("/check", h.CheckMission)
	r.Get("/status", h.MissionStatus)
}

// drillView withholds hint and solution; the hint comes back through check
// results once unlocked.
type drillView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *TrainingHandler) ListDrills(w http.ResponseWriter, r *http.Request) {
	levels, err := h.training.DrillLevels(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]drillView, len(levels))
	for i, l := range levels {
		views[i] = drillView{ID: l.ID, Title: l.Title, Description: l.Description}
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *TrainingHandler) GetDrill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	level, err := h.training.DrillLevel(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drillView{ID: level.ID, Title: level.Title, Description: level.Description})
}

type drillCheckRequest struct {
	Command  string `json:"command"`
	Attempts int    `json:"attempts"`
}

func (h *TrainingHandler) CheckDrill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	var req drillCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrInvalidInput)
		return
	}
	result, err := h.training.CheckDrill(r.Context(), id, req.Command, req.Attempts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type missionCheckRequest struct {
	Answer string `json:"answer"`
}

type missionCheckResponse struct {
	Cleared bool `json:"cleared"`
	Score   int  `json:"score"`
}

func (h *TrainingHandler) CheckMission(w http.ResponseWriter, r *http.Request) {
	var req missionCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrInvalidInput)
		return
	}
	score, cleared, err := h.training.CheckMission(r.Context(), userIDFrom(r.Context()), req.Answer)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, missionCheckResponse{Cleared: cleared, Score: score.Score})
}

func (h *TrainingHandler) MissionStatus(w http.ResponseWriter, r *http.Request) {
	score, err := h.training.MissionStatus(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, score)
}
