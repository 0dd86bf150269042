package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/offline"
)

type OfflineHandler struct {
	controller *offline.Controller
}

func NewOfflineHandler(controller *offline.Controller) *OfflineHandler {
	return &OfflineHandler{controller: controller}
}

func (h *OfflineHandler) Install(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Install(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Cache install failed", r))
		return
	}
	h.status(w, r)
}

func (h *OfflineHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Activate(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Cache activation failed", r))
		return
	}
	h.status(w, r)
}

func (h *OfflineHandler) Message(w http.ResponseWriter, r *http.Request) {
	var msg offline.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.controller.HandleMessage(r.Context(), msg); err != nil {
		if errors.Is(err, offline.ErrUnknownAction) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown control action", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Cache activation failed", r))
		return
	}
	h.status(w, r)
}

// Fetch proxies one asset request through the cache-first policy.
func (h *OfflineHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing url parameter", r))
		return
	}

	req := offline.Request{
		URL:         target,
		Destination: r.URL.Query().Get("destination"),
	}

	resp, err := h.controller.Fetch(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("FETCH_FAILED", "Asset unavailable offline", r))
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func (h *OfflineHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.status(w, r)
}

func (h *OfflineHandler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.controller.StatusReport(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to inspect cache", r))
		return
	}
	writeJSON(w, http.StatusOK, status)
}
