// Package session keeps live games in memory and enforces the
// exclusive-owner rule: every engine instance is mutated under the
// registry lock, never concurrently.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkarpov/minesweeper/internal/mines"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Game      *mines.GameSession
	StartedAt time.Time
	EndedAt   *time.Time

	lastTouched time.Time
}

// Finish records the end-of-game timestamp once.
func (s *Session) Finish(now time.Time) {
	if s.EndedAt == nil {
		s.EndedAt = &now
	}
}

type Registry struct {
	log *logrus.Logger
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(log *logrus.Logger, ttl time.Duration) *Registry {
	return &Registry{
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func newSessionID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Add registers a game and returns its session id.
func (r *Registry) Add(game *mines.GameSession) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newSessionID()
	for r.sessions[id] != nil {
		id = newSessionID()
	}
	now := time.Now().UTC()
	r.sessions[id] = &Session{
		ID:          id,
		Game:        game,
		StartedAt:   now,
		lastTouched: now,
	}
	return id
}

// Do runs fn on the session with the given id while holding the registry
// lock. All reads and moves go through here, so a session is only ever
// touched by one goroutine at a time.
func (r *Registry) Do(id string, fn func(*Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.lastTouched = time.Now().UTC()
	fn(s)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run advances every playing session's timer once per second and evicts
// sessions idle beyond the registry's ttl. Blocks until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.sweep(now.UTC())
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.Game.Status() == mines.Playing {
			s.Game.Tick()
		}
		if now.Sub(s.lastTouched) > r.ttl {
			delete(r.sessions, id)
			r.log.WithField("session_id", id).Debug("evicted idle session")
		}
	}
}
