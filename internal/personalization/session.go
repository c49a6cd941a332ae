package personalization

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// FormSession holds one buyer's in-progress personalization form. Sessions are
// in-memory only; an expired or lost session just means the buyer starts the
// form again.
type FormSession struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	PieceID        uuid.UUID
	BasePriceCents int64
	Fields         types.PersonalizationFields
	Form           *Form
	ExpiresAt      time.Time
}

// SessionStore is an in-memory TTL map of form sessions. Reads slide the
// expiry forward so active buyers are not cut off mid-form.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*FormSession
	ttl      time.Duration
	sweep    time.Duration
	now      func() time.Time
}

// NewSessionStore builds a store with the given session TTL and sweep cadence.
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}
	return &SessionStore{
		sessions: map[uuid.UUID]*FormSession{},
		ttl:      ttl,
		sweep:    sweepInterval,
		now:      time.Now,
	}
}

// Start runs the expiry sweeper until the context is cancelled.
func (s *SessionStore) Start(ctx context.Context, logg *logger.Logger) {
	go func() {
		ticker := time.NewTicker(s.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := s.sweepExpired()
				if removed > 0 && logg != nil {
					logg.Info(logg.WithField(ctx, "removed", removed), "swept expired form sessions")
				}
			}
		}
	}()
}

// Put stores a session and stamps its expiry.
func (s *SessionStore) Put(session *FormSession) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ExpiresAt = s.now().Add(s.ttl)
	s.sessions[session.ID] = session
}

// Get returns a live session and extends its TTL. Expired sessions are removed
// and reported as absent.
func (s *SessionStore) Get(id uuid.UUID) (*FormSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	session.ExpiresAt = s.now().Add(s.ttl)
	return session, true
}

// Delete removes a session, typically after its values are attached to a cart.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of sessions currently held, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
