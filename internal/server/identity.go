package server

import (
	"context"
	"net/http"
	"strings"
)

// Principal describes the caller as far as this gateway cares: there are no
// real credential checks, only a stable identity derived from the
// Authorization header when one is present.
type Principal struct {
	Subject   string
	Anonymous bool
}

type principalKey struct{}

// Identity is the authentication/authorization stage. It is purely
// pass-through: every request is admitted. It exists to fix the ordering
// contract the correlation stage depends on, and to give downstream stages a
// principal to attribute work to.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := Principal{Anonymous: true}

		if raw := r.Header.Get("Authorization"); raw != "" {
			subject := strings.TrimPrefix(raw, "Bearer ")
			if subject != "" {
				p = Principal{Subject: subject}
			}
		}

		ctx := context.WithValue(r.Context(), principalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFrom retrieves the caller identity from context. Returns an
// anonymous principal before the identity stage has run.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{Anonymous: true}
}
