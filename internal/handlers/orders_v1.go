package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/server"
	"github.com/opsline/incident-gateway/internal/storage"
	"github.com/opsline/incident-gateway/internal/validate"
)

// OrdersV1 serves the 1.0 order API.
type OrdersV1 struct {
	store storage.OrderStore
}

// NewOrdersV1 creates the v1 order handler.
func NewOrdersV1(store storage.OrderStore) *OrdersV1 {
	return &OrdersV1{store: store}
}

type createOrderRequestV1 struct {
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
}

func (r *createOrderRequestV1) Validate() *validate.Violations {
	v := validate.New()
	v.Require("customerName", r.CustomerName)
	v.Length("customerName", r.CustomerName, 2, 100)
	v.Require("productName", r.ProductName)
	v.Range("quantity", r.Quantity, 1, 1000)
	return v
}

// Create handles POST /v1/orders (and POST /orders resolved to 1.0).
func (h *OrdersV1) Create(w http.ResponseWriter, r *http.Request) error {
	var req createOrderRequestV1
	if err := server.DecodeValid(r, &req); err != nil {
		return err
	}

	ctx := r.Context()
	order := &domain.Order{
		OrderID:       uuid.New().String(),
		CustomerName:  req.CustomerName,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		Status:        domain.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
		APIVersion:    "1.0",
		CorrelationID: server.CorrelationID(ctx),
	}
	if err := h.store.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("store order: %w", err)
	}

	return server.JSON(w, http.StatusCreated, order)
}

// Get handles GET /v1/orders/{id} (and GET /orders/{id} resolved to 1.0).
func (h *OrdersV1) Get(w http.ResponseWriter, r *http.Request) error {
	order, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return server.JSON(w, http.StatusOK, order)
}
