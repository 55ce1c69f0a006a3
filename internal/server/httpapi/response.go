package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/studiosite/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case common.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the client-facing text for err. Auth and internal failures
// are reported without detail.
func messageFor(code int, err error) string {
	switch code {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusNotFound:
		return "not found"
	default:
		return err.Error()
	}
}

// fail logs err and writes the matching error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	switch {
	case code == http.StatusUnauthorized:
		recordAuthFailure(err)
		s.log.Warn(r.Context(), "unauthorized request", "path", r.URL.Path, "reason", err.Error())
	case code >= http.StatusInternalServerError:
		s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	default:
		s.log.Debug(r.Context(), "request rejected", "path", r.URL.Path, "status", code, "error", err.Error())
	}
	writeErr(w, code, messageFor(code, err))
}
