package store

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/quiz"
)

const janitorInterval = 10 * time.Minute

// SessionStore is the in-memory session registry. Sessions live only for the
// duration of an attempt; a restart removes the entry and every annotation
// with it. Nothing here survives a process restart, which is the point.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	maxIdle  time.Duration
	stopChan chan struct{}
}

type entry struct {
	session  *quiz.Session
	lastSeen time.Time
}

func NewSessionStore(maxIdle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*entry),
		maxIdle:  maxIdle,
		stopChan: make(chan struct{}),
	}
}

func (s *SessionStore) Put(session *quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &entry{session: session, lastSeen: time.Now()}
}

func (s *SessionStore) Get(id uuid.UUID) (*quiz.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.session, true
}

// Delete discards a session entirely. Used on restart; answers, confidence,
// marks and strikes all go with it.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor evicts sessions idle past maxIdle so abandoned attempts do not
// pile up. Runs until Stop.
func (s *SessionStore) StartJanitor() {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.evictIdle(time.Now())
			}
		}
	}()
	log.Printf("Session janitor started (max idle %s)", s.maxIdle)
}

func (s *SessionStore) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *SessionStore) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.maxIdle {
			delete(s.sessions, id)
			log.Printf("Evicted idle session %s", id)
		}
	}
}
