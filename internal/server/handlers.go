package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData()); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// handleFigure returns the figure JSON for ?year=N. A missing or
// non-integer year is a client error; a year with no events renders the
// boundary-only figure.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "year must be an integer",
		})
		return
	}

	writeJSON(w, http.StatusOK, s.builder.Build(year))
}

// handleYears reports the years that actually have events. The dashboard
// dropdown renders the fixed 1980-2024 range; this endpoint is metadata
// for diagnostics and API consumers.
func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	years := s.store.Years()
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready: the server is only constructed after the
// dataset and boundaries finished loading.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"events": s.store.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
