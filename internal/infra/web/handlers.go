package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
)

type generateRequest struct {
	Theme          string `json:"theme"`
	TechnicalArea  string `json:"area_tecnologica"`
	TargetAudience string `json:"target_audience"`
	NumChapters    int    `json:"num_chapters"`
}

type jobResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	CurrentStep  string    `json:"current_step"`
	Content      string    `json:"content,omitempty"`
	ApostilaID   string    `json:"apostila_id,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toJobResponse(job *model.GenerationJob) jobResponse {
	return jobResponse{
		ID:           job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		CurrentStep:  job.CurrentStep,
		Content:      job.Content,
		ApostilaID:   job.ApostilaID,
		DownloadURL:  job.DownloadURL,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := s.genUC.Submit(r.Context(), userIDFrom(r.Context()), model.GenerationRequest{
		Theme:          req.Theme,
		TechnicalArea:  req.TechnicalArea,
		TargetAudience: req.TargetAudience,
		NumChapters:    req.NumChapters,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, toJobResponse(job))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.genUC.GetJob(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJobResponse(job))
}

type apostilaResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Theme          string    `json:"theme"`
	TechnicalArea  string    `json:"area_tecnologica"`
	TargetAudience string    `json:"target_audience"`
	NumChapters    int       `json:"num_chapters"`
	FileSizeBytes  int64     `json:"file_size_bytes"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Server) handleListApostilas(w http.ResponseWriter, r *http.Request) {
	items, err := s.genUC.ListApostilas(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]apostilaResponse, 0, len(items))
	for _, a := range items {
		out = append(out, apostilaResponse{
			ID:             a.ID,
			Title:          a.Title,
			Theme:          a.Theme,
			TechnicalArea:  a.TechnicalArea,
			TargetAudience: a.TargetAudience,
			NumChapters:    a.NumChapters,
			FileSizeBytes:  a.FileSizeBytes,
			CreatedAt:      a.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	url, err := s.genUC.DownloadURL(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		s.log.Error().Err(err).Msg("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
