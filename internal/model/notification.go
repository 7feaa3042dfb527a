package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotifyBooking   NotificationType = "booking"
	NotifyPayment   NotificationType = "payment"
	NotifySystem    NotificationType = "system"
	NotifyPromotion NotificationType = "promotion"
)

// NotificationPayload is the typed data attached to a notification.
// Each notification type has exactly one payload shape.
type NotificationPayload interface {
	Kind() NotificationType
}

// BookingPayload points at the booking a notification talks about.
type BookingPayload struct {
	BookingID string        `json:"booking_id"`
	Status    BookingStatus `json:"status,omitempty"`
	Reminder  bool          `json:"reminder,omitempty"`
}

func (BookingPayload) Kind() NotificationType { return NotifyBooking }

// PaymentPayload points at the wallet transaction behind a notification.
type PaymentPayload struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (PaymentPayload) Kind() NotificationType { return NotifyPayment }

// SystemPayload carries an optional machine-readable code.
type SystemPayload struct {
	Code string `json:"code,omitempty"`
}

func (SystemPayload) Kind() NotificationType { return NotifySystem }

// PromotionPayload describes a discount offer.
type PromotionPayload struct {
	PromoCode   string `json:"promo_code"`
	DiscountPct int    `json:"discount_pct"`
	ServiceID   string `json:"service_id,omitempty"`
}

func (PromotionPayload) Kind() NotificationType { return NotifyPromotion }

// Notification is a message shown in a user's inbox.
type Notification struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Type      NotificationType    `json:"type"`
	IsRead    bool                `json:"is_read"`
	CreatedAt time.Time           `json:"created_at"`
	Data      NotificationPayload `json:"data,omitempty"`
}

// NewNotification carries the caller-supplied fields of a notification.
type NewNotification struct {
	UserID  string              `json:"user_id"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Type    NotificationType    `json:"type"`
	Data    NotificationPayload `json:"data,omitempty"`
}

// UnmarshalJSON decodes the payload according to the notification type.
func (n *NewNotification) UnmarshalJSON(b []byte) error {
	var raw struct {
		UserID  string           `json:"user_id"`
		Title   string           `json:"title"`
		Message string           `json:"message"`
		Type    NotificationType `json:"type"`
		Data    json.RawMessage  `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := DecodeNotificationPayload(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	*n = NewNotification{
		UserID:  raw.UserID,
		Title:   raw.Title,
		Message: raw.Message,
		Type:    raw.Type,
		Data:    data,
	}
	return nil
}

// DecodeNotificationPayload decodes raw JSON into the payload shape of
// the given type. Empty or null data yields a nil payload.
func DecodeNotificationPayload(t NotificationType, raw json.RawMessage) (NotificationPayload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch t {
	case NotifyBooking:
		var p BookingPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("booking payload: %w", err)
		}
		return p, nil
	case NotifyPayment:
		var p PaymentPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("payment payload: %w", err)
		}
		return p, nil
	case NotifySystem:
		var p SystemPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("system payload: %w", err)
		}
		return p, nil
	case NotifyPromotion:
		var p PromotionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("promotion payload: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown notification type %q", t)
	}
}
