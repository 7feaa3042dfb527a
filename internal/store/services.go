package store

import (
	"strings"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

func (s *Store) CreateService(in model.NewService) model.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	svc := model.Service{
		ID:          newID("service"),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Category:    in.Category,
		ProviderID:  in.ProviderID,
		Image:       in.Image,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.services.put(svc.ID, svc)
	s.emit(now, queue.ServiceCreated{
		ServiceID:  svc.ID,
		ProviderID: svc.ProviderID,
		Name:       svc.Name,
		Price:      svc.Price,
	})
	return svc
}

func (s *Store) GetServiceByID(id string) (model.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.get(id)
}

// GetServicesByProvider returns the provider's services, active or not,
// in insertion order.
func (s *Store) GetServicesByProvider(providerID string) []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(func(svc model.Service) bool { return svc.ProviderID == providerID })
}

// ListServices returns the whole catalog, including inactive services.
func (s *Store) ListServices() []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(func(model.Service) bool { return true })
}

// UpdateService merges the non-nil fields of p into the service and
// refreshes UpdatedAt. Bookings already made keep their price snapshot.
func (s *Store) UpdateService(id string, p model.ServicePatch) (model.Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services.get(id)
	if !ok {
		return model.Service{}, false
	}
	ev := queue.ServiceUpdated{ServiceID: id, OldPrice: svc.Price, OldIsActive: svc.IsActive}
	if p.Name != nil {
		svc.Name = *p.Name
	}
	if p.Description != nil {
		svc.Description = *p.Description
	}
	if p.Price != nil {
		svc.Price = *p.Price
	}
	if p.Duration != nil {
		svc.Duration = *p.Duration
	}
	if p.Category != nil {
		svc.Category = *p.Category
	}
	if p.Image != nil {
		svc.Image = *p.Image
	}
	if p.IsActive != nil {
		svc.IsActive = *p.IsActive
	}
	svc.UpdatedAt = s.now()
	s.services.put(id, svc)
	ev.NewPrice, ev.NewIsActive = svc.Price, svc.IsActive
	s.emit(svc.UpdatedAt, ev)
	return svc, true
}

// SearchServices returns the active services matching every populated
// filter field, in insertion order.
func (s *Store) SearchServices(f model.ServiceFilter) []model.Service {
	q := strings.ToLower(f.Query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(func(svc model.Service) bool {
		if !svc.IsActive {
			return false
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(svc.Name), q) &&
			!strings.Contains(strings.ToLower(svc.Description), q) {
			return false
		}
		if f.Category != "" && svc.Category != f.Category {
			return false
		}
		if f.PriceMin != nil && svc.Price.LessThan(*f.PriceMin) {
			return false
		}
		if f.PriceMax != nil && svc.Price.GreaterThan(*f.PriceMax) {
			return false
		}
		if f.ProviderID != "" && svc.ProviderID != f.ProviderID {
			return false
		}
		return true
	})
}
