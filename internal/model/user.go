package model

import "time"

// Role distinguishes customers from service providers.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
)

// User represents a marketplace account. A user is either a customer
// (RoleUser) who books services or a provider (RoleProvider) who offers
// them. Every user owns exactly one Wallet, created together with the
// user record.
//
// Fields:
//
//	ID         - generated identifier ("user-<uuid>").
//	Email      - lookup key; uniqueness is not enforced.
//	Name       - display name.
//	Role       - user or provider.
//	Password   - bcrypt hash of the password, never serialized.
//	IsVerified - whether the account passed verification.
//	Avatar     - optional avatar URL.
//	Phone      - optional phone number.
//	CreatedAt  - creation timestamp.
//	UpdatedAt  - last update timestamp.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Password   string    `json:"-"`
	IsVerified bool      `json:"is_verified"`
	Avatar     *string   `json:"avatar,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser carries the caller-supplied fields of a user. Password is the
// plain text password; the store hashes it before keeping it.
type NewUser struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	Password   string  `json:"password"`
	IsVerified bool    `json:"is_verified"`
	Avatar     *string `json:"avatar,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Email      *string `json:"email,omitempty"`
	Name       *string `json:"name,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	IsVerified *bool   `json:"is_verified,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}
