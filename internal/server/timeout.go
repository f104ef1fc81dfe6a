package server

import (
	"context"
	"net/http"
	"time"
)

// Timeout enforces a per-request deadline. Expiry cancels the request context;
// downstream work observes the cancellation cooperatively and the resulting
// context error classifies as a timeout fault, not an unexpected failure.
// A non-positive timeout disables the stage.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
