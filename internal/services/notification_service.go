// internal/services/notification_service.go
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxPendingNotifications = 50

// Notifier delivers user-visible messages. Delivery never blocks the caller
// and never fails from the caller's point of view.
type Notifier interface {
	Notify(sessionID uuid.UUID, key string, args ...interface{})
}

// Notification carries an i18n key; it is translated when read so the reader's
// language applies.
type Notification struct {
	Key       string        `json:"key"`
	Args      []interface{} `json:"args,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NotificationService keeps a bounded feed of pending notifications per session.
type NotificationService struct {
	mu    sync.Mutex
	feeds map[uuid.UUID][]Notification
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		feeds: make(map[uuid.UUID][]Notification),
	}
}

func (s *NotificationService) Notify(sessionID uuid.UUID, key string, args ...interface{}) {
	s.mu.Lock()
	feed := append(s.feeds[sessionID], Notification{
		Key:       key,
		Args:      args,
		CreatedAt: time.Now(),
	})
	if len(feed) > maxPendingNotifications {
		feed = feed[len(feed)-maxPendingNotifications:]
	}
	s.feeds[sessionID] = feed
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"key":        key,
	}).Info("Notification queued")
}

// Drain returns and clears the pending notifications of a session, oldest first.
func (s *NotificationService) Drain(sessionID uuid.UUID) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	feed := s.feeds[sessionID]
	delete(s.feeds, sessionID)
	return feed
}

func (s *NotificationService) Forget(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.feeds, sessionID)
	s.mu.Unlock()
}
