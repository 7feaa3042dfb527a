package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is an offering listed by a provider in the marketplace
// catalog. Only active services are returned by catalog searches.
//
// Fields:
//
//	ID          - generated identifier ("service-<uuid>").
//	Name        - listing title.
//	Description - free text shown on the service screen.
//	Price       - price of one booking.
//	Duration    - expected duration in hours.
//	Category    - free-text tag (e.g. "cleaning").
//	ProviderID  - user id of the provider offering the service.
//	Image       - image URL.
//	IsActive    - whether the listing is visible in searches.
//	CreatedAt   - creation timestamp.
//	UpdatedAt   - last update timestamp.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    decimal.Decimal `json:"duration"`
	Category    string          `json:"category"`
	ProviderID  string          `json:"provider_id"`
	Image       string          `json:"image"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewService carries the caller-supplied fields of a service.
type NewService struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    decimal.Decimal `json:"duration"`
	Category    string          `json:"category"`
	ProviderID  string          `json:"provider_id"`
	Image       string          `json:"image"`
	IsActive    bool            `json:"is_active"`
}

// ServicePatch is a partial update. Nil fields are left untouched.
type ServicePatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Duration    *decimal.Decimal `json:"duration,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// ServiceFilter narrows a catalog search. Every field is optional and
// the populated ones are ANDed together.
type ServiceFilter struct {
	Query      string           // case-insensitive substring of name or description
	Category   string           // exact category match
	PriceMin   *decimal.Decimal // inclusive lower bound
	PriceMax   *decimal.Decimal // inclusive upper bound
	ProviderID string           // exact provider match
}
