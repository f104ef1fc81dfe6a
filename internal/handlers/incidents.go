// Package handlers contains the business operations the pipeline dispatches
// into. Handlers read the correlation token from context, report failure by
// returning faults, and never format error responses themselves.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/enrich"
	"github.com/opsline/incident-gateway/internal/server"
	"github.com/opsline/incident-gateway/internal/storage"
	"github.com/opsline/incident-gateway/internal/validate"
)

// IncidentHandler serves incident creation and lookup.
type IncidentHandler struct {
	store    storage.IncidentStore
	enricher enrich.Enricher

	// Description length bounds come from configuration, not code.
	descMin int
	descMax int
}

// NewIncidentHandler creates the incident handler.
func NewIncidentHandler(store storage.IncidentStore, enricher enrich.Enricher, descMin, descMax int) *IncidentHandler {
	return &IncidentHandler{store: store, enricher: enricher, descMin: descMin, descMax: descMax}
}

type createIncidentRequest struct {
	UserDescription string `json:"userDescription"`
	ManualSeverity  *int   `json:"manualSeverity,omitempty"`
}

func (h *IncidentHandler) validateCreate(req *createIncidentRequest) *validate.Violations {
	v := validate.New()
	v.Require("userDescription", req.UserDescription)
	v.Length("userDescription", req.UserDescription, h.descMin, h.descMax)
	if req.ManualSeverity != nil {
		v.Range("manualSeverity", *req.ManualSeverity, 1, 4)
	}
	return v
}

// Create handles POST /incidents.
func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var req createIncidentRequest
	if err := server.Decode(r, &req); err != nil {
		return err
	}
	if err := server.CheckValid(r, h.validateCreate(&req)); err != nil {
		return err
	}

	ctx := r.Context()
	token := server.CorrelationID(ctx)

	enrichment, err := h.enricher.Enrich(ctx, req.UserDescription, token)
	if err != nil {
		return fmt.Errorf("enrich incident: %w", err)
	}

	severity := enrichment.Severity
	if req.ManualSeverity != nil {
		severity, err = domain.SeverityFromLevel(*req.ManualSeverity)
		if err != nil {
			return domain.ErrInvalidInput(err.Error())
		}
	}

	inc := &domain.Incident{
		ID:                uuid.New().String(),
		UserDescription:   req.UserDescription,
		StructuredSummary: enrichment.StructuredSummary,
		Severity:          severity,
		Tags:              enrichment.Tags,
		CreatedAt:         time.Now().UTC(),
		CorrelationID:     token,
	}
	if err := h.store.CreateIncident(ctx, inc); err != nil {
		return fmt.Errorf("store incident: %w", err)
	}

	server.Logger(ctx).Info("incident created",
		slog.String("incident_id", inc.ID),
		slog.String("severity", string(inc.Severity)),
		slog.Float64("confidence", enrichment.Confidence),
		slog.Duration("enrichment_duration", enrichment.ProcessingDuration),
	)

	return server.JSON(w, http.StatusCreated, inc)
}

// Get handles GET /incidents/{id}.
func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) error {
	inc, err := h.store.GetIncident(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return server.JSON(w, http.StatusOK, inc)
}

// List handles GET /incidents with an optional severity filter.
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) error {
	var filter storage.IncidentFilter
	if name := r.URL.Query().Get("severity"); name != "" {
		severity, err := domain.ParseSeverity(name)
		if err != nil {
			return domain.ErrInvalidInput(err.Error())
		}
		filter.Severity = severity
	}

	incidents, err := h.store.ListIncidents(r.Context(), filter)
	if err != nil {
		return err
	}
	return server.JSON(w, http.StatusOK, incidents)
}
