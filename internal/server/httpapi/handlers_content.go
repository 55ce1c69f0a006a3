package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type contentEntryResponse struct {
	SectionKey string     `json:"sectionKey"`
	RawValue   string     `json:"rawValue"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

func toContentResponse(e *models.ContentEntry) contentEntryResponse {
	out := contentEntryResponse{SectionKey: e.SectionKey, RawValue: e.RawValue}
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// putContentRequest accepts the value as rawValue, or as content for older
// admin clients.
type putContentRequest struct {
	RawValue *string `json:"rawValue"`
	Content  *string `json:"content"`
}

type publicContentResponse struct {
	RawValue string `json:"rawValue"`
}

func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	entry, err := s.content.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContentResponse(entry))
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	entries, err := s.content.ListAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]contentEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toContentResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) putContent(w http.ResponseWriter, r *http.Request) {
	var req putContentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	raw := req.RawValue
	if raw == nil {
		raw = req.Content
	}
	if raw == nil {
		s.fail(w, r, fmt.Errorf("%w: rawValue is required", common.ErrValidation))
		return
	}

	if err := s.content.Put(r.Context(), chi.URLParam(r, "key"), *raw); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) publicContent(w http.ResponseWriter, r *http.Request) {
	raw, err := s.content.PublicGet(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicContentResponse{RawValue: raw})
}
