package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HeaderCorrelationID is the inbound and outbound correlation header.
const HeaderCorrelationID = "X-Correlation-Id"

type correlationIDKey struct{}

type loggerKey struct{}

// Correlation assigns or adopts the per-request correlation token. An inbound
// X-Correlation-Id value is trusted and reused verbatim; otherwise a fresh
// UUID is minted. The token is stored in the request context, bound to a
// request-scoped logger, and echoed on the response before any downstream
// stage runs. Exactly one token exists per request and it never changes.
//
// The stage also emits the request started/completed log pair. Completion is
// deferred so it fires on every exit path, including panics unwinding toward
// the exception boundary.
func Correlation(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderCorrelationID)
			if token == "" {
				token = uuid.New().String()
			}

			reqLogger := logger.With(slog.String("correlation_id", token))

			ctx := context.WithValue(r.Context(), correlationIDKey{}, token)
			ctx = context.WithValue(ctx, loggerKey{}, reqLogger)

			w.Header().Set(HeaderCorrelationID, token)

			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			reqLogger.Info("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			defer func() {
				reqLogger.Info("request completed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", wrapped.statusCode),
					slog.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

// CorrelationID retrieves the correlation token from context. Returns an
// empty string before the correlation stage has run.
func CorrelationID(ctx context.Context) string {
	if token, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return token
	}
	return ""
}

// Logger returns the request-scoped logger carrying the correlation token,
// or the default logger when the correlation stage has not run.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// statusWriter wraps http.ResponseWriter to capture the final status code for
// the completion log.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

// Flush forwards Flush to the underlying ResponseWriter if it supports
// http.Flusher.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
