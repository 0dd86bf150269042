package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleEngineError maps Session Engine errors onto toast-style responses.
func handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionFinished):
		writeJSON(w, http.StatusConflict, errorResp("SESSION_FINISHED", "Session is already finished", r))
	case errors.Is(err, quiz.ErrNotFinished):
		writeJSON(w, http.StatusConflict, errorResp("SESSION_NOT_FINISHED", "Session has not been finished yet", r))
	case errors.Is(err, quiz.ErrInvalidOption):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Option does not belong to the current question", r))
	case errors.Is(err, quiz.ErrNoQuestions):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUESTIONS_UNAVAILABLE", "No questions available to start a session", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
