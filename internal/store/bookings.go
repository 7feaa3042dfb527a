package store

import (
	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

// CreateBooking stores a booking. When the referenced service exists, a
// zero Price or Duration and an empty ProviderID are copied from it; an
// unknown ServiceID is accepted as is. The status defaults to upcoming.
func (s *Store) CreateBooking(in model.NewBooking) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	b := model.Booking{
		ID:         newID("booking"),
		UserID:     in.UserID,
		ServiceID:  in.ServiceID,
		ProviderID: in.ProviderID,
		Date:       in.Date,
		Time:       in.Time,
		Duration:   in.Duration,
		Price:      in.Price,
		Address:    in.Address,
		Notes:      cloneString(in.Notes),
		Status:     in.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if svc, ok := s.services.get(in.ServiceID); ok {
		if b.Price.IsZero() {
			b.Price = svc.Price
		}
		if b.Duration.IsZero() {
			b.Duration = svc.Duration
		}
		if b.ProviderID == "" {
			b.ProviderID = svc.ProviderID
		}
	}
	if b.Status == "" {
		b.Status = model.BookingUpcoming
	}
	s.bookings.put(b.ID, b)
	s.emit(now, queue.BookingCreated{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		Date:       b.Date,
		Price:      b.Price,
	})
	return b
}

func (s *Store) GetBookingByID(id string) (model.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.get(id)
}

// GetBookingsByUser returns the bookings made by a customer in insertion order.
func (s *Store) GetBookingsByUser(userID string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b model.Booking) bool { return b.UserID == userID })
}

// GetBookingsByProvider returns the bookings served by a provider in
// insertion order.
func (s *Store) GetBookingsByProvider(providerID string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b model.Booking) bool { return b.ProviderID == providerID })
}

// GetBookingsByDate returns the bookings scheduled on date ("YYYY-MM-DD").
func (s *Store) GetBookingsByDate(date string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b model.Booking) bool { return b.Date == date })
}

// UpdateBooking merges the non-nil fields of p into the booking and
// refreshes UpdatedAt. Any status may be replaced by any other.
func (s *Store) UpdateBooking(id string, p model.BookingPatch) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings.get(id)
	if !ok {
		return model.Booking{}, false
	}
	old := b.Status
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Time != nil {
		b.Time = *p.Time
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.Notes != nil {
		b.Notes = cloneString(p.Notes)
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	b.UpdatedAt = s.now()
	s.bookings.put(id, b)
	s.emit(b.UpdatedAt, queue.BookingUpdated{BookingID: id, OldStatus: old, NewStatus: b.Status})
	return b, true
}
