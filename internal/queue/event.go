// Package queue defines the domain events exchanged over the message
// broker and the background consumer that records them.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/service-marketplace/internal/model"
)

// Kind names an event. It doubles as the tag of the payload union.
type Kind string

const (
	KindUserCreated         Kind = "user.created"
	KindServiceCreated      Kind = "service.created"
	KindServiceUpdated      Kind = "service.updated"
	KindBookingCreated      Kind = "booking.created"
	KindBookingUpdated      Kind = "booking.updated"
	KindTransactionCreated  Kind = "transaction.created"
	KindLedgerApplied       Kind = "ledger.applied"
	KindNotificationCreated Kind = "notification.created"

	KindUserUpdated          Kind = "user.updated"
	KindTransactionUpdated   Kind = "transaction.updated"
	KindWalletAdjusted       Kind = "wallet.adjusted"
	KindPaymentMethodCreated Kind = "payment_method.created"
	KindPaymentMethodDefault Kind = "payment_method.default_set"
	KindNotificationRead     Kind = "notification.read"
)

// Payload is implemented by every event body.
type Payload interface {
	EventKind() Kind
}

// Event is a single domain event. OccurredAt is stamped by the store
// clock when the mutation happened.
type Event struct {
	OccurredAt time.Time
	Payload    Payload
}

// Kind returns the tag of the payload, or "" for an empty event.
func (e Event) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.EventKind()
}

type UserCreated struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

func (UserCreated) EventKind() Kind { return KindUserCreated }

type ServiceCreated struct {
	ServiceID  string          `json:"service_id"`
	ProviderID string          `json:"provider_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

func (ServiceCreated) EventKind() Kind { return KindServiceCreated }

// ServiceUpdated records the catalog fields before and after a change.
type ServiceUpdated struct {
	ServiceID   string          `json:"service_id"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	OldIsActive bool            `json:"old_is_active"`
	NewIsActive bool            `json:"new_is_active"`
}

func (ServiceUpdated) EventKind() Kind { return KindServiceUpdated }

type BookingCreated struct {
	BookingID  string          `json:"booking_id"`
	UserID     string          `json:"user_id"`
	ProviderID string          `json:"provider_id"`
	ServiceID  string          `json:"service_id"`
	Date       string          `json:"date"`
	Price      decimal.Decimal `json:"price"`
}

func (BookingCreated) EventKind() Kind { return KindBookingCreated }

// BookingUpdated records the status before and after a change.
type BookingUpdated struct {
	BookingID string              `json:"booking_id"`
	OldStatus model.BookingStatus `json:"old_status"`
	NewStatus model.BookingStatus `json:"new_status"`
}

func (BookingUpdated) EventKind() Kind { return KindBookingUpdated }

type TransactionCreated struct {
	TransactionID string                  `json:"transaction_id"`
	UserID        string                  `json:"user_id"`
	Type          model.TransactionType   `json:"type"`
	Amount        decimal.Decimal         `json:"amount"`
	Status        model.TransactionStatus `json:"status"`
}

func (TransactionCreated) EventKind() Kind { return KindTransactionCreated }

// LedgerApplied records a balance change together with its transaction.
type LedgerApplied struct {
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	OldBalance    decimal.Decimal `json:"old_balance"`
	NewBalance    decimal.Decimal `json:"new_balance"`
}

func (LedgerApplied) EventKind() Kind { return KindLedgerApplied }

type NotificationCreated struct {
	NotificationID string                 `json:"notification_id"`
	UserID         string                 `json:"user_id"`
	Type           model.NotificationType `json:"type"`
	Title          string                 `json:"title"`
}

func (NotificationCreated) EventKind() Kind { return KindNotificationCreated }

// UserUpdated lists the profile fields a patch touched.
type UserUpdated struct {
	UserID  string   `json:"user_id"`
	Changed []string `json:"changed"`
}

func (UserUpdated) EventKind() Kind { return KindUserUpdated }

type TransactionUpdated struct {
	TransactionID string                  `json:"transaction_id"`
	UserID        string                  `json:"user_id"`
	OldStatus     model.TransactionStatus `json:"old_status"`
	NewStatus     model.TransactionStatus `json:"new_status"`
}

func (TransactionUpdated) EventKind() Kind { return KindTransactionUpdated }

// WalletAdjusted records a balance change made without a transaction.
type WalletAdjusted struct {
	UserID     string          `json:"user_id"`
	Delta      decimal.Decimal `json:"delta"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

func (WalletAdjusted) EventKind() Kind { return KindWalletAdjusted }

type PaymentMethodCreated struct {
	PaymentMethodID string                  `json:"payment_method_id"`
	UserID          string                  `json:"user_id"`
	Type            model.PaymentMethodType `json:"type"`
	Last4           string                  `json:"last4"`
	IsDefault       bool                    `json:"is_default"`
}

func (PaymentMethodCreated) EventKind() Kind { return KindPaymentMethodCreated }

// PaymentMethodDefaultSet names the new default and the method it replaced,
// if any.
type PaymentMethodDefaultSet struct {
	PaymentMethodID string `json:"payment_method_id"`
	UserID          string `json:"user_id"`
	PreviousID      string `json:"previous_id,omitempty"`
}

func (PaymentMethodDefaultSet) EventKind() Kind { return KindPaymentMethodDefault }

type NotificationRead struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
}

func (NotificationRead) EventKind() Kind { return KindNotificationRead }

type envelope struct {
	Kind       Kind            `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// MarshalJSON writes the event as {kind, occurred_at, payload}.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("event has no payload")
	}
	body, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: e.Kind(), OccurredAt: e.OccurredAt, Payload: body})
}

// UnmarshalJSON decodes the payload selected by the kind tag.
func (e *Event) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	p, err := newPayload(env.Kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(env.Payload, p); err != nil {
		return fmt.Errorf("%s payload: %w", env.Kind, err)
	}
	e.OccurredAt = env.OccurredAt
	e.Payload = deref(p)
	return nil
}

func newPayload(k Kind) (Payload, error) {
	switch k {
	case KindUserCreated:
		return &UserCreated{}, nil
	case KindServiceCreated:
		return &ServiceCreated{}, nil
	case KindServiceUpdated:
		return &ServiceUpdated{}, nil
	case KindBookingCreated:
		return &BookingCreated{}, nil
	case KindBookingUpdated:
		return &BookingUpdated{}, nil
	case KindTransactionCreated:
		return &TransactionCreated{}, nil
	case KindLedgerApplied:
		return &LedgerApplied{}, nil
	case KindNotificationCreated:
		return &NotificationCreated{}, nil
	case KindUserUpdated:
		return &UserUpdated{}, nil
	case KindTransactionUpdated:
		return &TransactionUpdated{}, nil
	case KindWalletAdjusted:
		return &WalletAdjusted{}, nil
	case KindPaymentMethodCreated:
		return &PaymentMethodCreated{}, nil
	case KindPaymentMethodDefault:
		return &PaymentMethodDefaultSet{}, nil
	case KindNotificationRead:
		return &NotificationRead{}, nil
	}
	return nil, fmt.Errorf("unknown event kind %q", k)
}

// deref turns the pointer used for decoding back into the value form
// that producers emit, so consumers can switch on value types.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *UserCreated:
		return *v
	case *ServiceCreated:
		return *v
	case *ServiceUpdated:
		return *v
	case *BookingCreated:
		return *v
	case *BookingUpdated:
		return *v
	case *TransactionCreated:
		return *v
	case *LedgerApplied:
		return *v
	case *NotificationCreated:
		return *v
	case *UserUpdated:
		return *v
	case *TransactionUpdated:
		return *v
	case *WalletAdjusted:
		return *v
	case *PaymentMethodCreated:
		return *v
	case *PaymentMethodDefaultSet:
		return *v
	case *NotificationRead:
		return *v
	}
	return p
}

// EntityID returns the id of the record the event is about.
func (e Event) EntityID() string {
	switch p := e.Payload.(type) {
	case UserCreated:
		return p.UserID
	case ServiceCreated:
		return p.ServiceID
	case ServiceUpdated:
		return p.ServiceID
	case BookingCreated:
		return p.BookingID
	case BookingUpdated:
		return p.BookingID
	case TransactionCreated:
		return p.TransactionID
	case LedgerApplied:
		return p.TransactionID
	case NotificationCreated:
		return p.NotificationID
	case UserUpdated:
		return p.UserID
	case TransactionUpdated:
		return p.TransactionID
	case WalletAdjusted:
		return p.UserID
	case PaymentMethodCreated:
		return p.PaymentMethodID
	case PaymentMethodDefaultSet:
		return p.PaymentMethodID
	case NotificationRead:
		return p.NotificationID
	}
	return ""
}
