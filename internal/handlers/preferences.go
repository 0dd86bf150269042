package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/prefs"
)

type PreferencesHandler struct {
	store prefs.Store
}

func NewPreferencesHandler(store prefs.Store) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

func (h *PreferencesHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.GetTheme(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read theme preference", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (h *PreferencesHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req models.ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Theme must be 'light' or 'dark'", r))
		return
	}

	if err := h.store.SetTheme(r.Context(), req.Theme); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save theme preference", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
