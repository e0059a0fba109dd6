package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/comfythings/visaflow/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps application errors to status codes and hides
// internal detail from callers.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := common.HTTPStatus(err)

	body := errorBody{Error: "internal error"}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		body.Code = appErr.Code
	}
	if status < http.StatusInternalServerError {
		if appErr != nil {
			body.Error = appErr.Message
		} else {
			body.Error = err.Error()
		}
	} else {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, body)
}

func (s *Server) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg})
}
