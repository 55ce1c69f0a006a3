package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/server/models"
	"github.com/dmitrijs2005/studiosite/internal/server/services"
)

// contactRequest mirrors the public form. project and message are accepted
// as aliases of projectType and body.
type contactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProjectType string `json:"projectType"`
	Project     string `json:"project"`
	Body        string `json:"body"`
	Message     string `json:"message"`
}

type contactResponse struct {
	Success   bool  `json:"success"`
	MessageID int64 `json:"messageId"`
}

type messageResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ProjectType string    `json:"projectType"`
	Body        string    `json:"body"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func toMessageResponse(m *models.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		ProjectType: m.ProjectType,
		Body:        m.Body,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	projectType := req.ProjectType
	if projectType == "" {
		projectType = req.Project
	}
	body := req.Body
	if body == "" {
		body = req.Message
	}

	id, err := s.messages.Submit(r.Context(), services.ContactForm{
		Name:        req.Name,
		Email:       req.Email,
		ProjectType: projectType,
		Body:        body,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Success: true, MessageID: id})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.messages.UpdateStatus(r.Context(), id, req.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.messages.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
