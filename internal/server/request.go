package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/validate"
)

// Validatable is a bound request body that declares field constraints.
type Validatable interface {
	Validate() *validate.Violations
}

// Decode binds the JSON request body into dst. Malformed bodies classify as
// invalid input.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidInput("request body is not valid JSON").WithCause(err)
	}
	return nil
}

// CheckValid is the fail-fast validation stage. When violations exist it logs
// a warning with the structured violation list and returns the invalid-input
// fault so the handler never runs.
func CheckValid(r *http.Request, v *validate.Violations) error {
	if v.Valid() {
		return nil
	}
	Logger(r.Context()).Warn("request validation failed",
		slog.String("path", r.URL.Path),
		slog.Int("violations", v.Len()),
		slog.Any("fields", v.FieldNames()),
	)
	return v.Fault()
}

// DecodeValid binds the request body and runs its declared constraints,
// short-circuiting before any handler logic on the first invalid request.
func DecodeValid[T Validatable](r *http.Request, dst T) error {
	if err := Decode(r, dst); err != nil {
		return err
	}
	return CheckValid(r, dst.Validate())
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return nil
}
