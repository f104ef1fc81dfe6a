// Package storage defines the store interfaces handlers depend on. The
// in-memory implementation in storage/memory is the only shared mutable
// resource in the process; it is a convenience cache for the process
// lifetime, not a durability layer.
package storage

import (
	"context"

	"github.com/opsline/incident-gateway/internal/domain"
)

// IncidentFilter narrows incident listings. The zero value matches
// everything.
type IncidentFilter struct {
	Severity domain.Severity
}

// IncidentStore holds created incidents.
type IncidentStore interface {
	CreateIncident(ctx context.Context, inc *domain.Incident) error

	// GetIncident returns a not-found fault when no incident has the id.
	GetIncident(ctx context.Context, id string) (*domain.Incident, error)

	// ListIncidents returns incidents in creation order.
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]*domain.Incident, error)
}

// OrderStore holds created orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error

	// GetOrder returns a not-found fault when no order has the id.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}
