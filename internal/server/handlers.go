package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/food"
	"github.com/meltforce/fittrack/internal/goals"
	"github.com/meltforce/fittrack/internal/recognition"
	"github.com/meltforce/fittrack/internal/workout"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workout.ErrNoActiveSession),
		errors.Is(err, workout.ErrSetNotFound),
		errors.Is(err, workout.ErrTemplateNotFound),
		errors.Is(err, workout.ErrSessionNotFound),
		errors.Is(err, goals.ErrGoalNotFound),
		errors.Is(err, food.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workout.ErrSessionInProgress):
		status = http.StatusConflict
	case errors.Is(err, workout.ErrInvalidTemplate),
		errors.Is(err, goals.ErrInvalidGoal),
		errors.Is(err, food.ErrInvalidEntry),
		errors.Is(err, recognition.ErrMissingAPIKey):
		status = http.StatusBadRequest
	case errors.Is(err, recognition.ErrInvalidAPIKey):
		status = http.StatusUnauthorized
	case errors.Is(err, recognition.ErrRecognitionFailed):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// requireConfirm rejects destructive requests that lack ?confirm=true.
func requireConfirm(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "destructive action requires confirm=true"})
		return false
	}
	return true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid %s index", name)})
		return 0, false
	}
	return v, true
}

// parseDay reads ?date=YYYY-MM-DD in local time, defaulting to today.
func parseDay(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation(time.DateOnly, v, time.Local)
}
