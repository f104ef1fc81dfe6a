// Package memory provides the in-memory store implementations. All mutation
// goes through one mutex per store; concurrent requests share nothing else.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/storage"
)

// IncidentStore is an in-memory implementation of storage.IncidentStore.
type IncidentStore struct {
	mu        sync.RWMutex
	incidents map[string]*domain.Incident
	order     []string
}

// NewIncidentStore creates an empty incident store.
func NewIncidentStore() *IncidentStore {
	return &IncidentStore{incidents: make(map[string]*domain.Incident)}
}

func (s *IncidentStore) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.incidents[inc.ID]; exists {
		return domain.ErrOperationNotAllowed(fmt.Sprintf("incident %s already exists", inc.ID))
	}

	s.incidents[inc.ID] = inc
	s.order = append(s.order, inc.ID)
	return nil
}

func (s *IncidentStore) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inc, exists := s.incidents[id]
	if !exists {
		return nil, domain.ErrNotFound(fmt.Sprintf("incident %s not found", id))
	}
	return inc, nil
}

func (s *IncidentStore) ListIncidents(ctx context.Context, filter storage.IncidentFilter) ([]*domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Incident, 0, len(s.order))
	for _, id := range s.order {
		inc := s.incidents[id]
		if filter.Severity != "" && inc.Severity != filter.Severity {
			continue
		}
		result = append(result, inc)
	}
	return result, nil
}

// Len reports the number of stored incidents. Used by tests to verify
// short-circuited requests left the store untouched.
func (s *IncidentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.incidents)
}

// OrderStore is an in-memory implementation of storage.OrderStore.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]*domain.Order)}
}

func (s *OrderStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return domain.ErrOperationNotAllowed(fmt.Sprintf("order %s already exists", order.OrderID))
	}
	s.orders[order.OrderID] = order
	return nil
}

func (s *OrderStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, domain.ErrNotFound(fmt.Sprintf("order %s not found", id))
	}
	return order, nil
}

var (
	_ storage.IncidentStore = (*IncidentStore)(nil)
	_ storage.OrderStore    = (*OrderStore)(nil)
)
