package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/models"
)

const maxImageBytes = 10 << 20

func (s *Server) handleListFood(w http.ResponseWriter, r *http.Request) {
	var (
		entries []models.FoodEntry
		err     error
	)
	if r.URL.Query().Get("date") == "" {
		entries, err = s.food.GetFoodEntries(r.Context())
	} else {
		day, perr := parseDay(r)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		entries, err = s.food.GetFoodEntriesForDate(r.Context(), day)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAddFood logs a JSON entry. A photo is sent as multipart/form-data with
// the entry JSON in the "entry" field and the image bytes in "image".
func (s *Server) handleAddFood(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.handleAddFoodWithImage(w, r)
		return
	}
	var e models.FoodEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	if e.ImageURI != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imageUri is not accepted; upload the photo as multipart image"})
		return
	}
	added, err := s.food.AddFoodEntry(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleAddFoodWithImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	var e models.FoodEntry
	if err := json.Unmarshal([]byte(r.FormValue("entry")), &e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry JSON"})
		return
	}
	if e.ImageURI != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imageUri is not accepted"})
		return
	}
	f, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading image"})
		return
	}

	added, err := s.food.AddFoodEntryWithImage(r.Context(), e, image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r) {
		return
	}
	if err := s.food.DeleteFoodEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFoodTotals(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	totals, err := s.food.DailyTotals(r.Context(), day)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleRecognizeFood takes the raw image as the request body.
func (s *Server) handleRecognizeFood(w http.ResponseWriter, r *http.Request) {
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image too large"})
		return
	}
	entry, err := s.food.RecognizeAndLog(r.Context(), image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
