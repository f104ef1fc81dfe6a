package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies the impact of an incident.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// severityRank orders severities for comparison; higher is worse.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric level of the severity (1=Low .. 4=Critical).
// Unknown severities rank as zero.
func (s Severity) Rank() int {
	return severityRank[s]
}

// ParseSeverity resolves a case-insensitive severity name.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(name) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("unknown severity %q", name)
	}
}

// SeverityFromLevel maps a numeric severity level (1-4) to a Severity.
func SeverityFromLevel(level int) (Severity, error) {
	switch level {
	case 1:
		return SeverityLow, nil
	case 2:
		return SeverityMedium, nil
	case 3:
		return SeverityHigh, nil
	case 4:
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("severity level %d out of range 1-4", level)
	}
}

// Incident is a triaged incident report. Incidents are immutable after
// creation; there is no update operation.
type Incident struct {
	ID                string    `json:"id"`
	UserDescription   string    `json:"userDescription"`
	StructuredSummary string    `json:"structuredSummary,omitempty"`
	Severity          Severity  `json:"severity"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`

	// CorrelationID is the correlation token of the creating request.
	CorrelationID string `json:"correlationId"`
}

// Enrichment is the result of running an incident description through the
// enrichment collaborator.
type Enrichment struct {
	StructuredSummary  string
	Severity           Severity
	Tags               []string
	Confidence         float64
	ProcessingDuration time.Duration
}
