// Package cron schedules the periodic booking reminder job.
package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/iliyamo/service-marketplace/internal/middleware"
	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

// Reminder notifies customers the day before an upcoming booking. Each
// booking is reminded at most once per process. When Cache is set, a run
// that creates notifications purges the cached HTTP responses under
// CachePrefix so inbox reads see the new entries.
type Reminder struct {
	Store       *store.Store
	Now         func() time.Time
	Log         *zap.Logger
	Cache       *redis.Client
	CachePrefix string

	mu   sync.Mutex
	sent map[string]bool
}

func NewReminder(s *store.Store, log *zap.Logger) *Reminder {
	return &Reminder{Store: s, Now: time.Now, Log: log, sent: map[string]bool{}}
}

// RunOnce creates reminder notifications for upcoming bookings dated
// tomorrow and returns how many were created.
func (r *Reminder) RunOnce() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	tomorrow := r.Now().AddDate(0, 0, 1).Format(time.DateOnly)
	created := 0
	for _, b := range r.Store.GetBookingsByDate(tomorrow) {
		if b.Status != model.BookingUpcoming || r.sent[b.ID] {
			continue
		}
		name := "service"
		if svc, ok := r.Store.GetServiceByID(b.ServiceID); ok {
			name = svc.Name
		}
		r.Store.CreateNotification(model.NewNotification{
			UserID:  b.UserID,
			Title:   "Booking Reminder",
			Message: fmt.Sprintf("Your %s booking is tomorrow at %s.", name, b.Time),
			Type:    model.NotifyBooking,
			Data:    model.BookingPayload{BookingID: b.ID, Status: b.Status, Reminder: true},
		})
		r.sent[b.ID] = true
		created++
	}
	r.Log.Info("booking reminders sent", zap.String("date", tomorrow), zap.Int("count", created))
	if created > 0 && r.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if n, err := middleware.PurgeCache(ctx, r.Cache, r.CachePrefix); err != nil {
			r.Log.Warn("cache purge after reminders failed", zap.Error(err))
		} else {
			r.Log.Debug("cache purged", zap.Int("keys", n))
		}
	}
	return created
}

// Schedule registers r on a new scheduler using a standard five-field
// cron spec. The caller starts and stops the returned scheduler.
func Schedule(spec string, r *Reminder) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.RunOnce() }); err != nil {
		return nil, fmt.Errorf("add reminder job %q: %w", spec, err)
	}
	return c, nil
}
