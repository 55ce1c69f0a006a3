package httpapi

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if s.db == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: map[string]string{}})
		return
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.log.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "unhealthy",
			Checks: map[string]string{"database": "down"},
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: map[string]string{"database": "ok"}})
}
