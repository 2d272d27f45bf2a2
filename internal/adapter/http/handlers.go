package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

const maxRequestBody = 64 << 10

type predictRequest struct {
	Place string `json:"place"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	assessment, err := s.assessor.Assess(r.Context(), req.Place)
	if err != nil {
		status, msg := errorStatus(err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// errorStatus maps a pipeline failure to its HTTP status and the message
// shown to the caller. Causes stay in the server log.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "Missing place name"
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound, "Location not found"
	case errors.Is(err, domain.ErrWeatherUnavailable):
		return http.StatusBadGateway, "Weather data fetch failed"
	case errors.Is(err, domain.ErrClassifier), errors.Is(err, domain.ErrClassifierContract):
		return http.StatusInternalServerError, "Risk model failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// staticHandler serves regular files below dir and index.html at the root.
// Anything else, directories included, is a 404.
func staticHandler(dir string) http.HandlerFunc {
	fsys := os.DirFS(dir)
	files := http.FileServerFS(fsys)
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		files.ServeHTTP(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
