package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// Problem is the standardized error envelope, shaped after RFC 7807.
// ExceptionType and StackTrace are attached only in development
// configuration.
type Problem struct {
	Status        int                 `json:"status"`
	Title         string              `json:"title"`
	Detail        string              `json:"detail,omitempty"`
	Instance      string              `json:"instance,omitempty"`
	CorrelationID string              `json:"correlationId,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
	Errors        map[string][]string `json:"errors,omitempty"`
	ExceptionType string              `json:"exceptionType,omitempty"`
	StackTrace    string              `json:"stackTrace,omitempty"`
}

// fallbackBody is the hardcoded minimal response used when envelope encoding
// itself fails. The boundary must never become a new source of unhandled
// faults.
const fallbackBody = `{"status":500,"title":"Internal Server Error"}`

// WriteProblem writes the envelope as JSON. Encoding happens before any bytes
// reach the wire so a marshalling failure degrades to the minimal fallback
// instead of a truncated body.
func WriteProblem(w http.ResponseWriter, p *Problem) {
	body, err := json.Marshal(p)

	w.Header().Set("Content-Type", "application/problem+json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallbackBody))
		return
	}
	w.WriteHeader(p.Status)
	_, _ = w.Write(body)
}
