// Package validate evaluates declared field constraints against bound request
// values. Evaluation never stops at the first failure: every violated
// constraint is collected, in the order constraints were checked, so a caller
// sees all problems at once.
package validate

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/opsline/incident-gateway/internal/domain"
)

// Violations accumulates constraint violations grouped by field. The zero
// value is not usable; call New.
type Violations struct {
	order  []string
	fields map[string][]string
}

// New creates an empty violation set.
func New() *Violations {
	return &Violations{fields: make(map[string][]string)}
}

// Add records a violation message for a field.
func (v *Violations) Add(field, message string) {
	if _, seen := v.fields[field]; !seen {
		v.order = append(v.order, field)
	}
	v.fields[field] = append(v.fields[field], message)
}

// Require flags the field when the value is empty.
func (v *Violations) Require(field, value string) {
	if value == "" {
		v.Add(field, "is required")
	}
}

// Length flags the field when the value's length is outside [min, max].
// Empty values are skipped; Require covers those.
func (v *Violations) Length(field, value string, min, max int) {
	if value == "" {
		return
	}
	if len(value) < min {
		v.Add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	if len(value) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// Range flags the field when n is outside [min, max].
func (v *Violations) Range(field string, n, min, max int) {
	if n < min || n > max {
		v.Add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

// Match flags the field when the value does not match the pattern. Empty
// values are skipped; Require covers those.
func (v *Violations) Match(field, value string, pattern *regexp.Regexp, message string) {
	if value == "" {
		return
	}
	if !pattern.MatchString(value) {
		v.Add(field, message)
	}
}

// UUID flags the field when the value is not a valid UUID. Empty values are
// skipped; Require covers those.
func (v *Violations) UUID(field, value string) {
	if value == "" {
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		v.Add(field, "must be a valid UUID")
	}
}

// Valid reports whether no violations were recorded.
func (v *Violations) Valid() bool {
	return len(v.order) == 0
}

// Len returns the total number of violation messages.
func (v *Violations) Len() int {
	n := 0
	for _, msgs := range v.fields {
		n += len(msgs)
	}
	return n
}

// FieldNames returns the violated field names in first-violation order.
func (v *Violations) FieldNames() []string {
	names := make([]string, len(v.order))
	copy(names, v.order)
	return names
}

// Fault converts the violations to an invalid-input fault, or nil when valid.
func (v *Violations) Fault() error {
	if v.Valid() {
		return nil
	}
	fields := make([]domain.FieldViolation, 0, len(v.order))
	for _, name := range v.order {
		msgs := make([]string, len(v.fields[name]))
		copy(msgs, v.fields[name])
		fields = append(fields, domain.FieldViolation{Field: name, Messages: msgs})
	}
	return domain.ErrValidation(fields)
}
