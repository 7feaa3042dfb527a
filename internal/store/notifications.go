package store

import (
	"time"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

func (s *Store) CreateNotification(in model.NewNotification) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := model.Notification{
		ID:        newID("notif"),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		CreatedAt: s.now(),
		Data:      in.Data,
	}
	s.notifications.put(n.ID, n)
	s.emit(n.CreatedAt, queue.NotificationCreated{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
	})
	return n
}

// GetNotificationsByUser returns the user's inbox, most recent first.
func (s *Store) GetNotificationsByUser(userID string) []model.Notification {
	s.mu.RLock()
	rows := s.notifications.filter(func(n model.Notification) bool { return n.UserID == userID })
	s.mu.RUnlock()
	return newestFirst(rows, func(n model.Notification) time.Time { return n.CreatedAt })
}

// MarkNotificationAsRead sets IsRead and reports whether the notification
// exists. Marking an already read notification is not an error and emits
// nothing.
func (s *Store) MarkNotificationAsRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications.get(id)
	if !ok {
		return false
	}
	if !n.IsRead {
		n.IsRead = true
		s.notifications.put(id, n)
		s.emit(s.now(), queue.NotificationRead{NotificationID: id, UserID: n.UserID})
	}
	return true
}

// MarkAllNotificationsAsRead marks every unread notification of the user
// and returns how many changed.
func (s *Store) MarkAllNotificationsAsRead(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	s.notifications.each(func(k string, n model.Notification) bool {
		if n.UserID == userID && !n.IsRead {
			ids = append(ids, k)
		}
		return true
	})
	now := s.now()
	for _, id := range ids {
		n, _ := s.notifications.get(id)
		n.IsRead = true
		s.notifications.put(id, n)
		s.emit(now, queue.NotificationRead{NotificationID: id, UserID: userID})
	}
	return len(ids)
}

func (s *Store) UnreadNotificationCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	s.notifications.each(func(_ string, n model.Notification) bool {
		if n.UserID == userID && !n.IsRead {
			count++
		}
		return true
	})
	return count
}
