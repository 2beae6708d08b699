package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/analyzere/extras/pkg/digraph"
	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
)

var contentTypes = map[string]string{
	digraph.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	digraph.FormatSVG:    "image/svg+xml",
	digraph.FormatPNG:    "image/png",
	digraph.FormatJPG:    "image/jpeg",
	digraph.FormatPDF:    "application/pdf",
	layerview.FormatJSON: "application/json",
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeNetwork, code == errors.ErrCodeTimeout, code == errors.ErrCodeUnauthorized:
		return http.StatusBadGateway
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}
