package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
	"github.com/iliyamo/service-marketplace/internal/utils"
)

// CreateUser stores a new user and its zero-balance wallet. The plain
// password is replaced by its bcrypt hash. Duplicate emails are
// accepted. The only failure is a password bcrypt refuses to hash.
func (s *Store) CreateUser(in model.NewUser) (model.User, error) {
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	now := s.now()
	u := model.User{
		ID:         newID("user"),
		Email:      in.Email,
		Name:       in.Name,
		Role:       in.Role,
		Password:   hash,
		IsVerified: in.IsVerified,
		Avatar:     cloneString(in.Avatar),
		Phone:      cloneString(in.Phone),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users.put(u.ID, u)
	s.wallets.put(u.ID, model.Wallet{
		UserID:    u.ID,
		Balance:   decimal.Zero,
		Currency:  model.DefaultCurrency,
		UpdatedAt: now,
	})
	s.emit(now, queue.UserCreated{UserID: u.ID, Email: u.Email, Role: u.Role})
	s.mu.Unlock()
	return u, nil
}

func (s *Store) GetUserByID(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id)
}

// GetUserByEmail returns the first user, in insertion order, whose email
// matches exactly.
func (s *Store) GetUserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var id string
	s.users.each(func(k string, u model.User) bool {
		if u.Email == email {
			id = k
			return false
		}
		return true
	})
	if id == "" {
		return model.User{}, false
	}
	return s.users.get(id)
}

// ListUsers returns every user in insertion order.
func (s *Store) ListUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.filter(func(model.User) bool { return true })
}

// UpdateUser merges the non-nil fields of p into the user and refreshes
// UpdatedAt. The emitted event lists the patched fields.
func (s *Store) UpdateUser(id string, p model.UserPatch) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.get(id)
	if !ok {
		return model.User{}, false
	}
	changed := []string{}
	if p.Email != nil {
		u.Email = *p.Email
		changed = append(changed, "email")
	}
	if p.Name != nil {
		u.Name = *p.Name
		changed = append(changed, "name")
	}
	if p.Role != nil {
		u.Role = *p.Role
		changed = append(changed, "role")
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
		changed = append(changed, "is_verified")
	}
	if p.Avatar != nil {
		u.Avatar = cloneString(p.Avatar)
		changed = append(changed, "avatar")
	}
	if p.Phone != nil {
		u.Phone = cloneString(p.Phone)
		changed = append(changed, "phone")
	}
	u.UpdatedAt = s.now()
	s.users.put(id, u)
	s.emit(u.UpdatedAt, queue.UserUpdated{UserID: id, Changed: changed})
	return u, true
}

// VerifyUserPassword looks the user up by email and compares the plain
// password against the stored hash.
func (s *Store) VerifyUserPassword(email, plain string) (model.User, bool) {
	u, ok := s.GetUserByEmail(email)
	if !ok {
		return model.User{}, false
	}
	if !utils.VerifyPassword(u.Password, plain) {
		return model.User{}, false
	}
	return u, true
}
