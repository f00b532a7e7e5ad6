package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/models"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.goals.GetGoals(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleActiveGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.goals.GetActiveGoals(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDailyGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.goals.GetDailyGoals(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleSaveGoal inserts a goal, or replaces the goal with the same id.
func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if !decodeJSON(w, r, &g) {
		return
	}
	saved, err := s.goals.SaveGoal(r.Context(), g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value *float64 `json:"value"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Value == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
		return
	}
	g, err := s.goals.UpdateGoalProgress(r.Context(), chi.URLParam(r, "id"), *body.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleRefreshGoals(w http.ResponseWriter, r *http.Request) {
	active, err := s.goals.UpdateTodayProgress(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.goals.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetNutritionGoals(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.GetNutritionGoals(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSaveNutritionGoals(w http.ResponseWriter, r *http.Request) {
	var g models.NutritionGoals
	if !decodeJSON(w, r, &g) {
		return
	}
	if err := s.goals.SaveNutritionGoals(r.Context(), g); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
