package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type verifyResponse struct {
	SubjectID int64  `json:"subjectId"`
	Username  string `json:"username"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, err := s.credentials.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      userResponse{ID: sess.AdminID, Username: sess.Username},
	})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id == nil {
		s.fail(w, r, common.ErrMissingToken)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{SubjectID: id.SubjectID, Username: id.Username})
}
