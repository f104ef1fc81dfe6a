package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
)

// Order is a created order. The v1 and v2 APIs populate different subsets of
// the optional fields; APIVersion records which API shape created the order.
type Order struct {
	OrderID string `json:"orderId"`

	// v1 fields
	CustomerName string `json:"customerName,omitempty"`
	ProductName  string `json:"productName,omitempty"`

	// v2 fields
	CustomerID      string `json:"customerId,omitempty"`
	ProductSKU      string `json:"productSKU,omitempty"`
	ShippingAddress string `json:"shippingAddress,omitempty"`

	Quantity      int         `json:"quantity"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	APIVersion    string      `json:"apiVersion"`
	CorrelationID string      `json:"correlationId,omitempty"`
}
