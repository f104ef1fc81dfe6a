package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/opsline/incident-gateway/internal/domain"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error
// instead of formatting an error response itself. Translation to the wire
// format happens in exactly one place: the exception boundary.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Boundary is the outermost pipeline stage. It converts any fault escaping
// the inner stages, including panics, into a standardized error envelope.
// Nothing propagates past it to the transport layer.
type Boundary struct {
	logger *slog.Logger

	// exposeInternals attaches the fault's type name and a stack trace to
	// envelopes. Enabled by development configuration only.
	exposeInternals bool
}

// NewBoundary creates an exception boundary.
func NewBoundary(logger *slog.Logger, exposeInternals bool) *Boundary {
	return &Boundary{logger: logger, exposeInternals: exposeInternals}
}

// Handle adapts an error-returning handler into an http.HandlerFunc,
// translating returned errors through the fault taxonomy.
func (b *Boundary) Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		b.writeFault(w, r, domain.Classify(err), nil)
	}
}

// Middleware recovers panics from the inner stages. It runs outermost, so the
// correlation token is recovered from the response header the correlation
// stage already set rather than from the (outer) request context.
func (b *Boundary) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				f := domain.NewFault(domain.FaultUnexpected, "an unexpected error occurred").
					WithCause(fmt.Errorf("panic: %v", rec))
				b.writeFault(w, r, f, debug.Stack())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (b *Boundary) writeFault(w http.ResponseWriter, r *http.Request, f *domain.Fault, stack []byte) {
	token := CorrelationID(r.Context())
	if token == "" {
		token = w.Header().Get(HeaderCorrelationID)
	}

	// Validation faults were already logged at the validation stage;
	// everything else logs here, at error severity, before responding.
	if f.Kind != domain.FaultInvalidInput || len(f.Fields) == 0 {
		logger := Logger(r.Context())
		logger.Error("request failed",
			slog.String("correlation_id", token),
			slog.String("fault", string(f.Kind)),
			slog.String("path", r.URL.Path),
			slog.String("error", f.Error()),
		)
	}

	p := &Problem{
		Status:        f.Status(),
		Title:         f.Title(),
		Detail:        f.Detail,
		Instance:      r.URL.Path,
		CorrelationID: token,
		Timestamp:     time.Now().UTC(),
	}

	if len(f.Fields) > 0 {
		p.Errors = make(map[string][]string, len(f.Fields))
		for _, fv := range f.Fields {
			p.Errors[fv.Field] = fv.Messages
		}
	}

	if b.exposeInternals {
		if cause := f.Unwrap(); cause != nil {
			p.ExceptionType = fmt.Sprintf("%T", cause)
		} else {
			p.ExceptionType = fmt.Sprintf("%T", f)
		}
		if stack != nil {
			p.StackTrace = string(stack)
		}
	}

	WriteProblem(w, p)
}
