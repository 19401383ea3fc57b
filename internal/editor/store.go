package editor

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastUsed time.Time
}

// Store keeps sessions by id and evicts ones left idle longer than its TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	ttl      time.Duration
	opts     []Option
	now      func() time.Time
}

// NewStore returns a Store whose sessions are created with opts. A ttl of
// zero disables eviction.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a session over buf and returns its id.
func (s *Store) Create(buf *pixel.Buffer, opts ...Option) (uuid.UUID, error) {
	id := uuid.New()
	all := append([]Option{WithName("session " + id.String()[:8])}, s.opts...)
	sess := NewSession(append(all, opts...)...)
	if err := sess.Load(buf); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.sessions[id] = &entry{session: sess, lastUsed: s.now()}
	s.mu.Unlock()

	log.Printf("Created session %s (%dx%d)", id, buf.Width(), buf.Height())
	return id, nil
}

// With runs fn with exclusive access to the session.
func (s *Store) With(id uuid.UUID, fn func(*Session) error) error {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	return fn(e.session)
}

// Delete removes a session, reporting whether it existed.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			// In use, so not idle.
			continue
		}
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor schedules Evict every interval. Callers shut the returned
// scheduler down when they are done.
func (s *Store) StartJanitor(interval time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := s.Evict(); n > 0 {
				log.Printf("Evicted %d idle sessions, %d remaining", n, s.Len())
			}
		}),
		gocron.WithName("session-janitor"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}
