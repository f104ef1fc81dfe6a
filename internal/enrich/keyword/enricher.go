// Package keyword implements the mock enricher: a keyword classifier with
// simulated processing latency.
package keyword

import (
	"context"
	"strings"
	"time"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/enrich"
)

// rules maps trigger words to a severity and a tag. Evaluated in order; the
// highest matched severity wins.
var rules = []struct {
	word     string
	severity domain.Severity
	tag      string
}{
	{"outage", domain.SeverityCritical, "outage"},
	{"critical", domain.SeverityCritical, "critical"},
	{"down", domain.SeverityCritical, "availability"},
	{"data loss", domain.SeverityCritical, "data-loss"},
	{"crash", domain.SeverityHigh, "crash"},
	{"error", domain.SeverityHigh, "error"},
	{"fail", domain.SeverityHigh, "failure"},
	{"slow", domain.SeverityMedium, "performance"},
	{"degraded", domain.SeverityMedium, "performance"},
	{"latency", domain.SeverityMedium, "performance"},
}

const summaryLimit = 120

// Enricher classifies descriptions by keyword matching. Delay simulates the
// latency of a real enrichment backend; the wait releases the goroutine's
// scheduling slot and aborts on context cancellation.
type Enricher struct {
	delay time.Duration
}

// New creates a keyword enricher with the given simulated latency.
func New(delay time.Duration) *Enricher {
	return &Enricher{delay: delay}
}

func (e *Enricher) Enrich(ctx context.Context, description, correlationID string) (*domain.Enrichment, error) {
	start := time.Now()

	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	lowered := strings.ToLower(description)
	severity := domain.SeverityLow
	var tags []string
	matches := 0
	for _, rule := range rules {
		if !strings.Contains(lowered, rule.word) {
			continue
		}
		matches++
		if rule.severity.Rank() > severity.Rank() {
			severity = rule.severity
		}
		if !contains(tags, rule.tag) {
			tags = append(tags, rule.tag)
		}
	}
	if tags == nil {
		tags = []string{"unclassified"}
	}

	confidence := 0.35 + 0.15*float64(matches)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return &domain.Enrichment{
		StructuredSummary:  summarize(description),
		Severity:           severity,
		Tags:               tags,
		Confidence:         confidence,
		ProcessingDuration: time.Since(start),
	}, nil
}

func summarize(description string) string {
	summary := strings.Join(strings.Fields(description), " ")
	if len(summary) > summaryLimit {
		summary = summary[:summaryLimit] + "..."
	}
	return summary
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ enrich.Enricher = (*Enricher)(nil)
