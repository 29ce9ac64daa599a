package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamma-omg/stock-dashboard/internal/dashboard"
	"github.com/go-chi/chi/v5"
)

type YearsResponse struct {
	Years   []int `json:"years"`
	Default *int  `json:"default"`
}

type ReloadResponse struct {
	Records int `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.dash.Years(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	resp := YearsResponse{Years: years}
	y, err := s.dash.DefaultYear(r.Context())
	switch {
	case err == nil:
		resp.Default = &y
	case !errors.Is(err, dashboard.ErrNoData):
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}

	ch, err := s.dash.Chart(r.Context(), year)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	year, ok := s.year(w, r)
	if !ok {
		return
	}

	// Rendered into memory first so a failure can still produce an error status.
	var buf bytes.Buffer
	if err := s.dash.RenderPNG(r.Context(), &buf, year); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.dash.Reload(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Info("dataset reloaded", slog.Int("records", n))
	s.writeJSON(w, http.StatusOK, ReloadResponse{Records: n})
}

// handleInvalidate drops the cached dataset. The next request loads it again.
func (s *Server) handleInvalidate(w http.ResponseWriter, _ *http.Request) {
	s.dash.Invalidate()
	s.log.Info("dataset invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) year(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year: " + raw})
		return 0, false
	}

	return year, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.log.Error("request failed", slog.Any("error", err))
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("failed to encode response: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.log.Error("failed to write response", slog.Any("error", err))
	}
}
