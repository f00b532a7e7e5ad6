package server

import (
	"net/http"
	"strings"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.GetDataStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type recognitionKey struct {
	APIKey string `json:"apiKey"`
}

func (s *Server) handleGetRecognitionKey(w http.ResponseWriter, r *http.Request) {
	key, err := s.repo.GetAPIKey(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recognitionKey{APIKey: key})
}

// handleSaveRecognitionKey stores the recognition service key. An empty key
// clears it.
func (s *Server) handleSaveRecognitionKey(w http.ResponseWriter, r *http.Request) {
	var body recognitionKey
	if !decodeJSON(w, r, &body) {
		return
	}
	body.APIKey = strings.TrimSpace(body.APIKey)
	if err := s.repo.SaveAPIKey(r.Context(), body.APIKey); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("recognition API key updated", "set", body.APIKey != "")
	writeJSON(w, http.StatusOK, body)
}
