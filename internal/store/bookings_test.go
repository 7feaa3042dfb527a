package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/service-marketplace/internal/model"
)

func TestCreateBookingSnapshotsService(t *testing.T) {
	s := newEmptyStore(t)
	svc := s.CreateService(model.NewService{Name: "Cleaning", Price: decimal.NewFromInt(80), Duration: decimal.NewFromInt(3), ProviderID: "prov", IsActive: true})

	b := s.CreateBooking(model.NewBooking{UserID: "cust", ServiceID: svc.ID, Date: "2025-02-01", Time: "09:00"})

	assert.Equal(t, model.BookingUpcoming, b.Status)
	assert.Equal(t, "prov", b.ProviderID)
	assert.True(t, b.Price.Equal(decimal.NewFromInt(80)))
	assert.True(t, b.Duration.Equal(decimal.NewFromInt(3)))

	newPrice := decimal.NewFromInt(120)
	_, ok := s.UpdateService(svc.ID, model.ServicePatch{Price: &newPrice})
	require.True(t, ok)

	again, ok := s.GetBookingByID(b.ID)
	require.True(t, ok)
	assert.True(t, again.Price.Equal(decimal.NewFromInt(80)), "booking price is a snapshot")
}

func TestCreateBookingAcceptsUnknownService(t *testing.T) {
	s := newEmptyStore(t)

	b := s.CreateBooking(model.NewBooking{
		UserID:    "cust",
		ServiceID: "service-ghost",
		Price:     decimal.NewFromInt(-5),
		Status:    model.BookingCancelled,
	})

	got, ok := s.GetBookingByID(b.ID)
	require.True(t, ok)
	assert.Equal(t, "service-ghost", got.ServiceID)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(-5)))
	assert.Empty(t, got.ProviderID)
}

func TestBookingsPartitionByUserAndProvider(t *testing.T) {
	s := newEmptyStore(t)
	b1 := s.CreateBooking(model.NewBooking{UserID: "u", ProviderID: "p"})
	b2 := s.CreateBooking(model.NewBooking{UserID: "u", ProviderID: "q"})
	b3 := s.CreateBooking(model.NewBooking{UserID: "v", ProviderID: "p"})

	byUser := s.GetBookingsByUser("u")
	byProvider := s.GetBookingsByProvider("p")

	assert.Equal(t, []string{b1.ID, b2.ID}, bookingIDs(byUser))
	assert.Equal(t, []string{b1.ID, b3.ID}, bookingIDs(byProvider))
	assert.Empty(t, s.GetBookingsByUser("p"))
}

func TestUpdateBookingAllowsAnyTransition(t *testing.T) {
	s := newEmptyStore(t)
	b := s.CreateBooking(model.NewBooking{UserID: "u", Date: "2025-03-01"})

	for _, st := range []model.BookingStatus{model.BookingCompleted, model.BookingUpcoming, model.BookingCancelled, model.BookingInProgress} {
		got, ok := s.UpdateBooking(b.ID, model.BookingPatch{Status: &st})
		require.True(t, ok)
		assert.Equal(t, st, got.Status)
	}

	date := "2025-03-02"
	got, ok := s.UpdateBooking(b.ID, model.BookingPatch{Date: &date})
	require.True(t, ok)
	assert.Equal(t, model.BookingInProgress, got.Status)
	assert.Equal(t, "2025-03-02", got.Date)

	assert.Len(t, s.GetBookingsByDate("2025-03-02"), 1)
	assert.Empty(t, s.GetBookingsByDate("2025-03-01"))

	_, ok = s.UpdateBooking("booking-missing", model.BookingPatch{Date: &date})
	assert.False(t, ok)
}

func bookingIDs(bs []model.Booking) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}
