package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/server"
	"github.com/opsline/incident-gateway/internal/storage"
	"github.com/opsline/incident-gateway/internal/validate"
)

// skuPattern is the product SKU format the 2.0 API accepts.
var skuPattern = regexp.MustCompile(`^[A-Z]{3}-\d{4}$`)

// OrdersV2 serves the 2.0 order API.
type OrdersV2 struct {
	store storage.OrderStore
}

// NewOrdersV2 creates the v2 order handler.
func NewOrdersV2(store storage.OrderStore) *OrdersV2 {
	return &OrdersV2{store: store}
}

type createOrderRequestV2 struct {
	CustomerID      string `json:"customerId"`
	ProductSKU      string `json:"productSKU"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shippingAddress"`
}

func (r *createOrderRequestV2) Validate() *validate.Violations {
	v := validate.New()
	v.Require("customerId", r.CustomerID)
	v.UUID("customerId", r.CustomerID)
	v.Require("productSKU", r.ProductSKU)
	v.Match("productSKU", r.ProductSKU, skuPattern, `must match pattern ^[A-Z]{3}-\d{4}$`)
	v.Range("quantity", r.Quantity, 1, 10000)
	v.Require("shippingAddress", r.ShippingAddress)
	return v
}

// Create handles POST /orders with X-Version: 2.0 (and POST /v2/orders).
func (h *OrdersV2) Create(w http.ResponseWriter, r *http.Request) error {
	var req createOrderRequestV2
	if err := server.DecodeValid(r, &req); err != nil {
		return err
	}

	ctx := r.Context()
	order := &domain.Order{
		OrderID:         uuid.New().String(),
		CustomerID:      req.CustomerID,
		ProductSKU:      req.ProductSKU,
		ShippingAddress: req.ShippingAddress,
		Quantity:        req.Quantity,
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
		APIVersion:      "2.0",
		CorrelationID:   server.CorrelationID(ctx),
	}
	if err := h.store.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("store order: %w", err)
	}

	return server.JSON(w, http.StatusCreated, order)
}

// Get handles GET /orders/{id} with X-Version: 2.0 (and GET /v2/orders/{id}).
func (h *OrdersV2) Get(w http.ResponseWriter, r *http.Request) error {
	order, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return server.JSON(w, http.StatusOK, order)
}
