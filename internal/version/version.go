// Package version selects exactly one registered handler per request based on
// an API version signal. Two resolution strategies coexist: a path marker
// segment (/v{N}/...) and a request header. The header wins when both are
// present; a configurable default applies when neither is. Resolving a
// version with no registered handler is a client error, never a crash.
package version

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/server"
)

// DefaultHeader is the header consulted by the header strategy unless
// configured otherwise.
const DefaultHeader = "X-Version"

// Normalize parses a version string leniently into major.minor form:
// "2" and "2.0" both normalize to "2.0".
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty version")
	}

	major, minor := raw, "0"
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		major, minor = raw[:i], raw[i+1:]
	}

	maj, err := strconv.ParseUint(major, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid version %q", raw)
	}
	min, err := strconv.ParseUint(minor, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid version %q", raw)
	}

	return fmt.Sprintf("%d.%d", maj, min), nil
}

// Registry maps normalized version keys to handlers. It is populated at
// startup and read-only afterwards, so lookups need no synchronization.
type Registry struct {
	handlers map[string]http.Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]http.Handler)}
}

// Register adds a handler for a version. Panics on malformed versions or
// duplicate registration; both are wiring bugs caught at process start.
func (reg *Registry) Register(version string, h http.Handler) {
	key, err := Normalize(version)
	if err != nil {
		panic(fmt.Sprintf("register version: %v", err))
	}
	if _, exists := reg.handlers[key]; exists {
		panic(fmt.Sprintf("version %q already registered", key))
	}
	reg.handlers[key] = h
}

// Lookup returns the handler registered for a normalized version key.
func (reg *Registry) Lookup(key string) (http.Handler, bool) {
	h, ok := reg.handlers[key]
	return h, ok
}

// Versions returns the registered normalized version keys.
func (reg *Registry) Versions() []string {
	keys := make([]string, 0, len(reg.handlers))
	for k := range reg.handlers {
		keys = append(keys, k)
	}
	return keys
}

// Resolver dispatches a request to the registry entry selected by the
// version signals on the request.
type Resolver struct {
	registry       *Registry
	header         string
	defaultVersion string
}

// NewResolver creates a resolver over the registry. header and defaultVersion
// fall back to DefaultHeader and "1.0" when empty.
func NewResolver(registry *Registry, header, defaultVersion string) *Resolver {
	if header == "" {
		header = DefaultHeader
	}
	if defaultVersion == "" {
		defaultVersion = "1.0"
	}
	return &Resolver{registry: registry, header: header, defaultVersion: defaultVersion}
}

type versionKey struct{}

// FromContext returns the resolved API version of the current request, or an
// empty string outside a versioned route.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return ""
}

// Dispatch resolves the version and forwards to the registered handler.
// Strategy order is fixed: the path marker segment is read first, then the
// header; the header wins when both are present. Mount under a chi route with
// a {version} URL parameter for the path strategy, and without one for the
// header-or-default path.
func (rv *Resolver) Dispatch(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "version")
	if h := r.Header.Get(rv.header); h != "" {
		raw = h
	}
	if raw == "" {
		raw = rv.defaultVersion
	}

	key, err := Normalize(raw)
	if err != nil {
		return domain.ErrInvalidInput(fmt.Sprintf("unparseable API version %q", raw)).WithCause(err)
	}

	h, ok := rv.registry.Lookup(key)
	if !ok {
		return domain.ErrInvalidInput(fmt.Sprintf("unsupported API version %q", key))
	}

	ctx := context.WithValue(r.Context(), versionKey{}, key)
	h.ServeHTTP(w, r.WithContext(ctx))
	return nil
}

var _ server.HandlerFunc = (*Resolver)(nil).Dispatch
