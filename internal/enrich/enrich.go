// Package enrich defines the enrichment collaborator seam. The pipeline only
// depends on the Enricher interface; the keyword implementation stands in for
// a future AI-backed service, and the remote adapter talks to one over HTTP.
package enrich

import (
	"context"

	"github.com/opsline/incident-gateway/internal/domain"
)

// Enricher turns a raw incident description into a structured triage result.
// Implementations must honor context cancellation: a request deadline or a
// disconnected caller stops enrichment promptly.
type Enricher interface {
	Enrich(ctx context.Context, description, correlationID string) (*domain.Enrichment, error)
}
