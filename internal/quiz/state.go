package quiz

import (
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
)

// State is the rendering-layer view of a session after any mutation: the
// current question (with answer key withheld), progress, timing, annotations
// and the live score.
type State struct {
	SessionID        string              `json:"session_id"`
	Mode             Mode                `json:"mode"`
	Question         models.QuestionView `json:"question"`
	QuestionIndex    int                 `json:"question_index"`
	TotalQuestions   int                 `json:"total_questions"`
	Progress         float64             `json:"progress"`
	ElapsedSec       int64               `json:"elapsed_sec"`
	SelectedOptionID string              `json:"selected_option_id,omitempty"`
	ConfidencePct    int                 `json:"confidence_pct"`
	Marked           bool                `json:"marked"`
	StruckOptionIDs  []string            `json:"struck_option_ids,omitempty"`
	RealtimeScorePct int                 `json:"realtime_score_pct"`
	AnsweredCount    int                 `json:"answered_count"`
	Finished         bool                `json:"finished"`
}

// Snapshot builds the State for the current cursor position. The correct
// option never leaves the engine here; study-mode correctness travels through
// SelectOption feedback instead.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.current()
	view := models.QuestionView{
		ID:        q.ID,
		Statement: q.Statement,
		Tags:      q.Tags,
		Options:   q.Options,
	}

	confidence, ok := s.confidence[q.ID]
	if !ok {
		confidence = DefaultConfidence
	}

	var struck []string
	for _, opt := range q.Options {
		if _, ok := s.struck[q.ID][opt.ID]; ok {
			struck = append(struck, opt.ID)
		}
	}

	end := s.now()
	if s.finished {
		end = s.endedAt
	}

	_, marked := s.marked[q.ID]
	return State{
		SessionID:        s.ID.String(),
		Mode:             s.Mode,
		Question:         view,
		QuestionIndex:    s.cursor,
		TotalQuestions:   len(s.order),
		Progress:         float64(s.cursor+1) / float64(len(s.order)),
		ElapsedSec:       int64(end.Sub(s.startedAt).Seconds()),
		SelectedOptionID: s.answers[q.ID],
		ConfidencePct:    confidence,
		Marked:           marked,
		StruckOptionIDs:  struck,
		RealtimeScorePct: s.realtimeScore(),
		AnsweredCount:    len(s.answers),
		Finished:         s.finished,
	}
}

// RealtimeScore is the accuracy over the answers given so far, usable while
// the session is still running.
func (s *Session) RealtimeScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realtimeScore()
}

func (s *Session) realtimeScore() int {
	correct, total := s.score()
	if total == 0 {
		return 0
	}
	return roundPct(correct, total)
}
