package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/questions"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/quiz"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/store"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/websocket"
)

type SessionHandler struct {
	source questions.Source
	store  *store.SessionStore
	hub    *websocket.Hub
}

func NewSessionHandler(source questions.Source, sessions *store.SessionStore, hub *websocket.Hub) *SessionHandler {
	return &SessionHandler{
		source: source,
		store:  sessions,
		hub:    hub,
	}
}

// Start creates a session over the loaded question bank. A question-load
// failure surfaces as a transient notification and the session does not
// start; there is no automatic retry.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	mode := quiz.Mode(req.Mode)
	if mode == "" {
		mode = quiz.ModeExam
	}
	if mode != quiz.ModeExam && mode != quiz.ModeStudy {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Mode must be 'exam' or 'study'", r))
		return
	}

	bank, err := h.source.Load()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUESTIONS_UNAVAILABLE", "Failed to load questions. Please try again.", r))
		return
	}

	session, err := quiz.StartSession(bank, mode)
	if err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.store.Put(session)

	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// Answer records the option pick. Study mode gets immediate feedback; both
// modes get the refreshed realtime score.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	feedback, err := session.SelectOption(req.OptionID)
	if err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback":           feedback,
		"realtime_score_pct": session.RealtimeScore(),
	})
}

func (h *SessionHandler) Confidence(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ConfidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := session.SetConfidence(req.Value); err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) Mark(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	marked, err := session.ToggleMark()
	if err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, map[string]bool{"marked": marked})
}

func (h *SessionHandler) Strike(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.StrikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	struck, err := session.ToggleStrike(req.OptionID)
	if err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, map[string]bool{"struck": struck})
}

func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := session.Navigate(req.Delta); err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := session.Finish(); err != nil {
		handleEngineError(w, r, err)
		return
	}
	h.broadcast(session)

	writeJSON(w, http.StatusOK, session.ComputeResult())
}

func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	if !session.Finished() {
		handleEngineError(w, r, quiz.ErrNotFinished)
		return
	}

	writeJSON(w, http.StatusOK, session.ComputeResult())
}

// Export serves the results snapshot as a download; the timestamped filename
// keeps repeated exports from colliding.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	now := time.Now()
	snapshot, err := session.Export(now)
	if err != nil {
		handleEngineError(w, r, err)
		return
	}

	filename := fmt.Sprintf("quiz-results-%d.json", now.UnixMilli())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(snapshot)
}

// Delete discards the session; a restart begins from a clean slate.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	h.store.Delete(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session discarded"})
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return nil, false
	}

	session, ok := h.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return nil, false
	}
	return session, true
}

func (h *SessionHandler) broadcast(session *quiz.Session) {
	if h.hub == nil {
		return
	}
	h.hub.SendToSession(session.ID, map[string]interface{}{
		"type":  "session_update",
		"state": session.Snapshot(),
	})
}
