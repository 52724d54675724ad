// internal/services/session_service.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	storefront *Storefront
	lastSeen   time.Time
}

// SessionService owns every live Storefront, keyed by session id.
type SessionService struct {
	deps          StorefrontDeps
	notifications *NotificationService
	ttl           time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewSessionService(deps StorefrontDeps, notifications *NotificationService, ttl time.Duration) *SessionService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &SessionService{
		deps:          deps,
		notifications: notifications,
		ttl:           ttl,
		sessions:      make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *SessionService) Create() *Storefront {
	storefront := NewStorefront(uuid.New(), s.deps)

	s.mu.Lock()
	s.sessions[storefront.ID] = &sessionEntry{storefront: storefront, lastSeen: s.deps.Now()}
	s.mu.Unlock()

	logrus.WithField("session_id", storefront.ID).Info("Storefront session created")
	return storefront
}

// Get returns the session and marks it as used.
func (s *SessionService) Get(id uuid.UUID) (*Storefront, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = s.deps.Now()
	return entry.storefront, nil
}

func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionService) Sweep() int {
	cutoff := s.deps.Now().Add(-s.ttl)

	var expired []*Storefront
	s.mu.Lock()
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.storefront)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, storefront := range expired {
		storefront.Close()
		if s.notifications != nil {
			s.notifications.Forget(storefront.ID)
		}
	}

	if len(expired) > 0 {
		logrus.WithField("expired", len(expired)).Info("Expired storefront sessions removed")
	}
	return len(expired)
}

// RunJanitor sweeps every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
