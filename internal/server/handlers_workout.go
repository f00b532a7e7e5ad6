package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/models"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.workouts.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.workouts.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.WorkoutTemplate
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = ""
	saved, err := s.workouts.SaveTemplate(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var t models.WorkoutTemplate
	if !decodeJSON(w, r, &t) {
		return
	}
	t.ID = chi.URLParam(r, "id")
	saved, err := s.workouts.SaveTemplate(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.workouts.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleActiveWorkout returns the in-progress session, or null when there is none.
func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.workouts.ActiveWorkout(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TemplateID string `json:"templateId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.TemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "templateId is required"})
		return
	}
	sess, err := s.workouts.StartWorkout(r.Context(), body.TemplateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handlePauseWorkout(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r)(s.workouts.PauseWorkout(r.Context()))
}

func (s *Server) handleResumeWorkout(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r)(s.workouts.ResumeWorkout(r.Context()))
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r)(s.workouts.FinishWorkout(r.Context()))
}

func (s *Server) handleCancelWorkout(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r)(s.workouts.CancelWorkout(r.Context()))
}

// respondSession writes the result of a session operation.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request) func(*models.Session, error) {
	return func(sess *models.Session, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	var body struct {
		ActualWeight *float64 `json:"actualWeight"`
		ActualReps   *int     `json:"actualReps"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ActualWeight == nil && body.ActualReps == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "actualWeight or actualReps is required"})
		return
	}

	sess, err := s.workouts.UpdateSet(r.Context(), ex, set, body.ActualWeight, body.ActualReps)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	s.respondSession(w, r)(s.workouts.CompleteSet(r.Context(), ex, set))
}

func (s *Server) handleFailSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	s.respondSession(w, r)(s.workouts.MarkSetAsFailure(r.Context(), ex, set))
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	s.respondSession(w, r)(s.workouts.AddSet(r.Context(), ex))
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	set, ok := intParam(w, r, "set")
	if !ok {
		return
	}
	s.respondSession(w, r)(s.workouts.DeleteSet(r.Context(), ex, set))
}

func (s *Server) handleWorkoutHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.workouts.History(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.workouts.DeleteHistoryEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
