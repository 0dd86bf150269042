package quiz

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
)

type Mode string

const (
	ModeExam  Mode = "exam"
	ModeStudy Mode = "study"
)

// DefaultConfidence is the slider value assumed for a question the user has
// never touched the slider on.
const DefaultConfidence = 50

var (
	ErrNoQuestions     = errors.New("no questions to start a session with")
	ErrSessionFinished = errors.New("session already finished")
	ErrInvalidOption   = errors.New("option does not belong to the current question")
	ErrNotFinished     = errors.New("session not finished yet")
)

// Feedback is returned from SelectOption in study mode only.
type Feedback struct {
	Correct         bool   `json:"correct"`
	CorrectOptionID string `json:"correct_option_id"`
	Explanation     string `json:"explanation,omitempty"`
}

// Session owns the full state of one quiz attempt. Methods serialize through
// an internal mutex so each user action applies atomically, mirroring the
// single event queue the quiz screen drives it from.
type Session struct {
	mu sync.Mutex

	ID   uuid.UUID
	Mode Mode

	order      []models.Question
	cursor     int
	answers    map[string]string
	confidence map[string]int
	marked     map[string]struct{}
	struck     map[string]map[string]struct{}
	elapsedMs  map[string]int64

	startedAt  time.Time
	endedAt    time.Time
	focusStart time.Time
	finished   bool

	now func() time.Time
}

type sessionConfig struct {
	now func() time.Time
	rng *rand.Rand
}

type SessionOption func(*sessionConfig)

// WithClock replaces the session's time source. Tests use it to drive
// per-question elapsed time deterministically.
func WithClock(now func() time.Time) SessionOption {
	return func(c *sessionConfig) { c.now = now }
}

// WithRand replaces the shuffle randomness source.
func WithRand(rng *rand.Rand) SessionOption {
	return func(c *sessionConfig) { c.rng = rng }
}

// StartSession creates a fresh session over the given questions. Exam mode
// shuffles the presentation order with an unbiased Fisher-Yates pass; study
// mode keeps the original order.
func StartSession(questions []models.Question, mode Mode, opts ...SessionOption) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	cfg := sessionConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(cfg.now().UnixNano()))
	}

	order := make([]models.Question, len(questions))
	copy(order, questions)
	if mode == ModeExam {
		shuffle(order, cfg.rng)
	}

	start := cfg.now()
	return &Session{
		ID:         uuid.New(),
		Mode:       mode,
		order:      order,
		answers:    make(map[string]string),
		confidence: make(map[string]int),
		marked:     make(map[string]struct{}),
		struck:     make(map[string]map[string]struct{}),
		elapsedMs:  make(map[string]int64),
		startedAt:  start,
		focusStart: start,
		now:        cfg.now,
	}, nil
}

// shuffle is Fisher-Yates: each of the n! permutations is equally likely.
func shuffle(qs []models.Question, rng *rand.Rand) {
	for i := len(qs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func (s *Session) current() models.Question {
	return s.order[s.cursor]
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// SelectOption records the chosen option for the current question and
// snapshots the confidence slider. Last selection wins. In study mode the
// returned feedback reveals correctness immediately; in exam mode it is nil.
func (s *Session) SelectOption(optionID string) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil, ErrSessionFinished
	}

	q := s.current()
	if !hasOption(q, optionID) {
		return nil, ErrInvalidOption
	}

	s.answers[q.ID] = optionID
	if _, ok := s.confidence[q.ID]; !ok {
		s.confidence[q.ID] = DefaultConfidence
	}

	if s.Mode != ModeStudy {
		return nil, nil
	}
	return &Feedback{
		Correct:         optionID == q.CorrectOptionID,
		CorrectOptionID: q.CorrectOptionID,
		Explanation:     q.Explanation,
	}, nil
}

// SetConfidence stores the slider value for the current question, clamped
// into [0,100]. Out-of-range input is never an error.
func (s *Session) SetConfidence(value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrSessionFinished
	}

	s.confidence[s.current().ID] = clamp(value, 0, 100)
	return nil
}

// ToggleMark flips the review flag on the current question and reports the
// new state.
func (s *Session) ToggleMark() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return false, ErrSessionFinished
	}

	qid := s.current().ID
	if _, ok := s.marked[qid]; ok {
		delete(s.marked, qid)
		return false, nil
	}
	s.marked[qid] = struct{}{}
	return true, nil
}

// ToggleStrike crosses out (or restores) an option of the current question.
// Strike state is a pure visual aid and never affects scoring.
func (s *Session) ToggleStrike(optionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return false, ErrSessionFinished
	}

	q := s.current()
	if !hasOption(q, optionID) {
		return false, ErrInvalidOption
	}

	set, ok := s.struck[q.ID]
	if !ok {
		set = make(map[string]struct{})
		s.struck[q.ID] = set
	}
	if _, ok := set[optionID]; ok {
		delete(set, optionID)
		return false, nil
	}
	set[optionID] = struct{}{}
	return true, nil
}

// Navigate moves the cursor by delta, clamped to the question range. Moving
// past either end is a no-op rather than an error. Focus time spent on the
// question being left is accumulated before the move, and the focus clock
// restarts afterwards regardless of whether the position changed.
func (s *Session) Navigate(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrSessionFinished
	}

	s.flushElapsed()
	s.cursor = clamp(s.cursor+delta, 0, len(s.order)-1)
	s.focusStart = s.now()
	return nil
}

// Finish flushes the current question's focus time and freezes the session.
// A second call leaves every total untouched.
func (s *Session) Finish() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrSessionFinished
	}

	s.flushElapsed()
	s.endedAt = s.now()
	s.finished = true
	return nil
}

// flushElapsed folds now-focusStart into the current question's total.
// Callers hold s.mu.
func (s *Session) flushElapsed() {
	q := s.current()
	s.elapsedMs[q.ID] += s.now().Sub(s.focusStart).Milliseconds()
	s.focusStart = s.now()
}

// Finished reports whether Finish has been called.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func hasOption(q models.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
