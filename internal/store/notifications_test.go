package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/service-marketplace/internal/model"
)

func TestMarkNotificationAsReadIsIdempotent(t *testing.T) {
	s := newEmptyStore(t)
	n := s.CreateNotification(model.NewNotification{UserID: "u", Type: model.NotifySystem, Title: "Welcome"})
	require.False(t, n.IsRead)

	assert.True(t, s.MarkNotificationAsRead(n.ID))
	assert.True(t, s.MarkNotificationAsRead(n.ID))

	inbox := s.GetNotificationsByUser("u")
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].IsRead)

	assert.False(t, s.MarkNotificationAsRead("notif-missing"))
}

func TestNotificationsNewestFirstAndUnreadCount(t *testing.T) {
	s := newEmptyStore(t)
	older := s.CreateNotification(model.NewNotification{UserID: "u", Type: model.NotifyPromotion, Title: "Sale",
		Data: model.PromotionPayload{PromoCode: "SPRING", DiscountPct: 15}})
	newer := s.CreateNotification(model.NewNotification{UserID: "u", Type: model.NotifyBooking, Title: "Booked",
		Data: model.BookingPayload{BookingID: "booking-1"}})
	s.CreateNotification(model.NewNotification{UserID: "v", Type: model.NotifySystem, Title: "Other"})

	inbox := s.GetNotificationsByUser("u")
	require.Len(t, inbox, 2)
	assert.Equal(t, newer.ID, inbox[0].ID)
	assert.Equal(t, older.ID, inbox[1].ID)

	promo, ok := inbox[1].Data.(model.PromotionPayload)
	require.True(t, ok)
	assert.Equal(t, "SPRING", promo.PromoCode)

	assert.Equal(t, 2, s.UnreadNotificationCount("u"))
	s.MarkNotificationAsRead(older.ID)
	assert.Equal(t, 1, s.UnreadNotificationCount("u"))

	assert.Equal(t, 1, s.MarkAllNotificationsAsRead("u"))
	assert.Equal(t, 0, s.MarkAllNotificationsAsRead("u"))
	assert.Equal(t, 0, s.UnreadNotificationCount("u"))
	assert.Equal(t, 1, s.UnreadNotificationCount("v"))
}

func TestSetDefaultPaymentMethod(t *testing.T) {
	s := newEmptyStore(t)
	visa := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "u", Type: model.PaymentCard, Last4: "4242", Brand: "Visa", IsDefault: true})
	bank := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "u", Type: model.PaymentBank, Last4: "6789", Brand: "Chase"})
	other := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "v", Type: model.PaymentPaypal, IsDefault: true})

	got, ok := s.SetDefaultPaymentMethod("u", bank.ID)
	require.True(t, ok)
	assert.True(t, got.IsDefault)

	methods := s.GetPaymentMethodsByUser("u")
	require.Len(t, methods, 2)
	assert.Equal(t, visa.ID, methods[0].ID)
	assert.False(t, methods[0].IsDefault)
	assert.True(t, methods[1].IsDefault)

	_, ok = s.SetDefaultPaymentMethod("u", other.ID)
	assert.False(t, ok, "cannot pick another user's method")
	assert.True(t, s.GetPaymentMethodsByUser("v")[0].IsDefault)
}

func TestCreateDefaultPaymentMethodReplacesDefault(t *testing.T) {
	s := newEmptyStore(t)
	visa := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "u", Type: model.PaymentCard, Last4: "4242", IsDefault: true})
	other := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "v", Type: model.PaymentCard, Last4: "1111", IsDefault: true})
	amex := s.CreatePaymentMethod(model.NewPaymentMethod{UserID: "u", Type: model.PaymentCard, Last4: "0005", IsDefault: true})

	defaults := []string{}
	for _, pm := range s.GetPaymentMethodsByUser("u") {
		if pm.IsDefault {
			defaults = append(defaults, pm.ID)
		}
	}
	assert.Equal(t, []string{amex.ID}, defaults)
	assert.NotEqual(t, visa.ID, amex.ID)
	assert.True(t, s.GetPaymentMethodsByUser("v")[0].IsDefault)
	assert.Equal(t, other.ID, s.GetPaymentMethodsByUser("v")[0].ID)
}
