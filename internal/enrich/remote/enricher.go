// Package remote implements the Enricher seam against an external enrichment
// service over HTTP. This is the adapter a real AI backend plugs into; the
// wire contract mirrors the Enricher interface one to one.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/enrich"
	"github.com/opsline/incident-gateway/internal/server"
)

// Enricher calls an external enrichment service.
type Enricher struct {
	baseURL string
	client  *http.Client
}

// Option configures the enricher.
type Option func(*Enricher)

// WithHTTPClient replaces the default SSRF-safe client, primarily for tests
// and recorded transports.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Enricher) { e.client = c }
}

// New creates a remote enricher for the service at baseURL.
func New(baseURL string, opts ...Option) *Enricher {
	e := &Enricher{
		baseURL: baseURL,
		client:  &http.Client{Transport: safeTransport},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type enrichRequest struct {
	Description   string `json:"description"`
	CorrelationID string `json:"correlationId"`
}

type enrichResponse struct {
	StructuredSummary    string   `json:"structuredSummary"`
	Severity             string   `json:"severity"`
	Tags                 []string `json:"tags"`
	ConfidenceScore      float64  `json:"confidenceScore"`
	ProcessingDurationMs int64    `json:"processingDurationMs"`
}

func (e *Enricher) Enrich(ctx context.Context, description, correlationID string) (*domain.Enrichment, error) {
	body, err := json.Marshal(enrichRequest{Description: description, CorrelationID: correlationID})
	if err != nil {
		return nil, fmt.Errorf("encode enrichment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/enrich", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build enrichment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(server.HeaderCorrelationID, correlationID)

	resp, err := e.client.Do(req)
	if err != nil {
		// Context errors surface as-is so the boundary classifies
		// cancellation as a timeout, not an unexpected failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("call enrichment service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return nil, domain.ErrInvalidInput("enrichment service rejected the description")
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return nil, domain.ErrTimeout("enrichment service timed out")
	default:
		return nil, domain.NewFault(domain.FaultUnexpected,
			fmt.Sprintf("enrichment service returned status %d", resp.StatusCode))
	}

	var payload enrichResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}

	severity, err := domain.ParseSeverity(payload.Severity)
	if err != nil {
		return nil, fmt.Errorf("enrichment response: %w", err)
	}

	return &domain.Enrichment{
		StructuredSummary:  payload.StructuredSummary,
		Severity:           severity,
		Tags:               payload.Tags,
		Confidence:         payload.ConfidenceScore,
		ProcessingDuration: time.Duration(payload.ProcessingDurationMs) * time.Millisecond,
	}, nil
}

var _ enrich.Enricher = (*Enricher)(nil)
