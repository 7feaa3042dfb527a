package store

import (
	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

// CreatePaymentMethod stores a payment method. A method created with
// IsDefault replaces the user's current default in the same step.
func (s *Store) CreatePaymentMethod(in model.NewPaymentMethod) model.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm := model.PaymentMethod{
		ID:        newID("pm"),
		UserID:    in.UserID,
		Type:      in.Type,
		Last4:     in.Last4,
		Brand:     in.Brand,
		IsDefault: in.IsDefault,
		CreatedAt: s.now(),
	}
	var previous string
	if pm.IsDefault {
		previous = s.clearDefaultLocked(pm.UserID)
	}
	s.paymentMethods.put(pm.ID, pm)
	s.emit(pm.CreatedAt, queue.PaymentMethodCreated{
		PaymentMethodID: pm.ID,
		UserID:          pm.UserID,
		Type:            pm.Type,
		Last4:           pm.Last4,
		IsDefault:       pm.IsDefault,
	})
	if pm.IsDefault {
		s.emit(pm.CreatedAt, queue.PaymentMethodDefaultSet{PaymentMethodID: pm.ID, UserID: pm.UserID, PreviousID: previous})
	}
	return pm
}

func (s *Store) GetPaymentMethodsByUser(userID string) []model.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paymentMethods.filter(func(pm model.PaymentMethod) bool { return pm.UserID == userID })
}

// SetDefaultPaymentMethod makes id the user's only default method. It
// returns false when id does not exist or belongs to another user.
func (s *Store) SetDefaultPaymentMethod(userID, id string) (model.PaymentMethod, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.paymentMethods.get(id)
	if !ok || target.UserID != userID {
		return model.PaymentMethod{}, false
	}
	previous := s.clearDefaultLocked(userID)
	target.IsDefault = true
	s.paymentMethods.put(id, target)
	if previous != id {
		s.emit(s.now(), queue.PaymentMethodDefaultSet{PaymentMethodID: id, UserID: userID, PreviousID: previous})
	}
	return target, true
}

// clearDefaultLocked drops the default flag from every method of the user
// and returns the id of the first one that had it.
func (s *Store) clearDefaultLocked(userID string) string {
	var ids []string
	s.paymentMethods.each(func(k string, pm model.PaymentMethod) bool {
		if pm.UserID == userID && pm.IsDefault {
			ids = append(ids, k)
		}
		return true
	})
	for _, k := range ids {
		pm, _ := s.paymentMethods.get(k)
		pm.IsDefault = false
		s.paymentMethods.put(k, pm)
	}
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}
