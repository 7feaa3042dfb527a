package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is set directly by callers; the store does not validate
// transitions between statuses.
type BookingStatus string

const (
	BookingUpcoming   BookingStatus = "upcoming"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Booking records a customer's order of a service from a provider.
// Price and Duration are snapshots taken when the booking is created
// and are not recalculated if the service changes afterwards.
//
// Fields:
//
//	ID         - generated identifier ("booking-<uuid>").
//	UserID     - customer who booked.
//	ServiceID  - service being booked.
//	ProviderID - provider delivering the service.
//	Date       - calendar date, "YYYY-MM-DD".
//	Time       - time of day as entered by the customer (e.g. "10:00 AM").
//	Duration   - snapshot of the service duration in hours.
//	Price      - snapshot of the service price.
//	Address    - where the service takes place.
//	Notes      - optional instructions.
//	Status     - upcoming, in-progress, completed or cancelled.
//	CreatedAt  - creation timestamp.
//	UpdatedAt  - last update timestamp.
type Booking struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	ServiceID  string          `json:"service_id"`
	ProviderID string          `json:"provider_id"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Duration   decimal.Decimal `json:"duration"`
	Price      decimal.Decimal `json:"price"`
	Address    string          `json:"address"`
	Notes      *string         `json:"notes,omitempty"`
	Status     BookingStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewBooking carries the caller-supplied fields of a booking. Zero Price
// or Duration and an empty ProviderID are filled from the referenced
// service when it exists. An empty Status becomes BookingUpcoming.
type NewBooking struct {
	UserID     string          `json:"user_id"`
	ServiceID  string          `json:"service_id"`
	ProviderID string          `json:"provider_id"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Duration   decimal.Decimal `json:"duration"`
	Price      decimal.Decimal `json:"price"`
	Address    string          `json:"address"`
	Notes      *string         `json:"notes,omitempty"`
	Status     BookingStatus   `json:"status"`
}

// BookingPatch is a partial update. Nil fields are left untouched.
type BookingPatch struct {
	Date    *string        `json:"date,omitempty"`
	Time    *string        `json:"time,omitempty"`
	Address *string        `json:"address,omitempty"`
	Notes   *string        `json:"notes,omitempty"`
	Status  *BookingStatus `json:"status,omitempty"`
}
