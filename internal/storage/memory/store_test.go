package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/storage"
)

func TestIncidentStore_CreateAndGet(t *testing.T) {
	store := NewIncidentStore()

	inc := &domain.Incident{
		ID:              "inc-1",
		UserDescription: "database is down and customers see errors",
		Severity:        domain.SeverityCritical,
		CreatedAt:       time.Now().UTC(),
		CorrelationID:   "corr-1",
	}

	if err := store.CreateIncident(context.Background(), inc); err != nil {
		t.Fatalf("CreateIncident() error = %v", err)
	}

	got, err := store.GetIncident(context.Background(), "inc-1")
	if err != nil {
		t.Fatalf("GetIncident() error = %v", err)
	}
	if got.Severity != domain.SeverityCritical {
		t.Errorf("Severity = %v, want Critical", got.Severity)
	}
	if got.CorrelationID != "corr-1" {
		t.Errorf("CorrelationID = %v, want corr-1", got.CorrelationID)
	}
}

func TestIncidentStore_GetMissingIsNotFoundFault(t *testing.T) {
	store := NewIncidentStore()

	_, err := store.GetIncident(context.Background(), "nope")
	var f *domain.Fault
	if !errors.As(err, &f) || f.Kind != domain.FaultNotFound {
		t.Errorf("GetIncident() error = %v, want not-found fault", err)
	}
}

func TestIncidentStore_ListFiltersAndPreservesOrder(t *testing.T) {
	store := NewIncidentStore()

	severities := []domain.Severity{
		domain.SeverityLow, domain.SeverityCritical, domain.SeverityCritical, domain.SeverityHigh,
	}
	for i, sev := range severities {
		inc := &domain.Incident{ID: fmt.Sprintf("inc-%d", i), Severity: sev}
		if err := store.CreateIncident(context.Background(), inc); err != nil {
			t.Fatalf("CreateIncident() error = %v", err)
		}
	}

	all, err := store.ListIncidents(context.Background(), storage.IncidentFilter{})
	if err != nil {
		t.Fatalf("ListIncidents() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].ID != "inc-0" || all[3].ID != "inc-3" {
		t.Errorf("listing not in creation order: %v, %v", all[0].ID, all[3].ID)
	}

	critical, err := store.ListIncidents(context.Background(), storage.IncidentFilter{Severity: domain.SeverityCritical})
	if err != nil {
		t.Fatalf("ListIncidents(critical) error = %v", err)
	}
	if len(critical) != 2 {
		t.Errorf("critical count = %d, want 2", len(critical))
	}
}

func TestIncidentStore_ConcurrentWrites(t *testing.T) {
	store := NewIncidentStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inc := &domain.Incident{ID: fmt.Sprintf("inc-%d", i), Severity: domain.SeverityLow}
			if err := store.CreateIncident(context.Background(), inc); err != nil {
				t.Errorf("CreateIncident(%d) error = %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 100 {
		t.Errorf("Len() = %d, want 100", store.Len())
	}
}

func TestOrderStore_CreateAndGet(t *testing.T) {
	store := NewOrderStore()

	order := &domain.Order{
		OrderID:    "ord-1",
		Quantity:   3,
		Status:     domain.OrderStatusPending,
		APIVersion: "1.0",
	}
	if err := store.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	got, err := store.GetOrder(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if got.APIVersion != "1.0" {
		t.Errorf("APIVersion = %s, want 1.0", got.APIVersion)
	}

	_, err = store.GetOrder(context.Background(), "missing")
	var f *domain.Fault
	if !errors.As(err, &f) || f.Kind != domain.FaultNotFound {
		t.Errorf("GetOrder(missing) error = %v, want not-found fault", err)
	}
}

func TestOrderStore_DuplicateRejected(t *testing.T) {
	store := NewOrderStore()
	order := &domain.Order{OrderID: "ord-1"}

	if err := store.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	err := store.CreateOrder(context.Background(), order)
	var f *domain.Fault
	if !errors.As(err, &f) || f.Kind != domain.FaultOperationNotAllowed {
		t.Errorf("duplicate CreateOrder() error = %v, want operation-not-allowed fault", err)
	}
}
