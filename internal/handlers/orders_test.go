package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/opsline/incident-gateway/internal/domain"
	"github.com/opsline/incident-gateway/internal/storage/memory"
)

func TestOrdersV1_Create(t *testing.T) {
	store := memory.NewOrderStore()
	h := NewOrdersV1(store)

	body := `{"customerName":"Ada Lovelace","productName":"Widget","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	if err := h.Create(rec, req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}
	if order.APIVersion != "1.0" {
		t.Errorf("APIVersion = %s, want 1.0", order.APIVersion)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("Status = %s, want Pending", order.Status)
	}
	if order.OrderID == "" {
		t.Error("orderId missing")
	}
}

func TestOrdersV1_ValidationCollectsAll(t *testing.T) {
	h := NewOrdersV1(memory.NewOrderStore())

	body := `{"customerName":"A","productName":"","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	err := h.Create(httptest.NewRecorder(), req)

	var f *domain.Fault
	if !errors.As(err, &f) {
		t.Fatalf("Create() error = %v, want fault", err)
	}
	if len(f.Fields) != 3 {
		t.Errorf("Fields = %+v, want all three violations reported", f.Fields)
	}
}

func TestOrdersV2_Create(t *testing.T) {
	store := memory.NewOrderStore()
	h := NewOrdersV2(store)

	body := `{"customerId":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","productSKU":"ABC-1234","quantity":250,"shippingAddress":"1 Infinite Loop"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	if err := h.Create(rec, req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatal(err)
	}
	if order.APIVersion != "2.0" {
		t.Errorf("APIVersion = %s, want 2.0", order.APIVersion)
	}
	if order.ProductSKU != "ABC-1234" {
		t.Errorf("ProductSKU = %s", order.ProductSKU)
	}
}

func TestOrdersV2_BadSKU(t *testing.T) {
	h := NewOrdersV2(memory.NewOrderStore())

	body := `{"customerId":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","productSKU":"bad-sku","quantity":1,"shippingAddress":"somewhere"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	err := h.Create(httptest.NewRecorder(), req)

	var f *domain.Fault
	if !errors.As(err, &f) || f.Kind != domain.FaultInvalidInput {
		t.Fatalf("Create() error = %v, want invalid-input fault", err)
	}

	found := false
	for _, fv := range f.Fields {
		if fv.Field == "productSKU" {
			found = true
			if !strings.Contains(fv.Messages[0], "pattern") {
				t.Errorf("productSKU message = %q, want pattern mention", fv.Messages[0])
			}
		}
	}
	if !found {
		t.Errorf("Fields = %+v, want productSKU violation", f.Fields)
	}
}

func TestOrdersV2_QuantityRange(t *testing.T) {
	h := NewOrdersV2(memory.NewOrderStore())

	body := `{"customerId":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","productSKU":"ABC-1234","quantity":20000,"shippingAddress":"somewhere"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	err := h.Create(httptest.NewRecorder(), req)

	var f *domain.Fault
	if !errors.As(err, &f) {
		t.Fatalf("Create() error = %v, want fault", err)
	}
	if len(f.Fields) != 1 || f.Fields[0].Field != "quantity" {
		t.Errorf("Fields = %+v, want single quantity violation", f.Fields)
	}
}

func TestOrders_GetRoundTrip(t *testing.T) {
	store := memory.NewOrderStore()
	v1 := NewOrdersV1(store)

	body := `{"customerName":"Ada Lovelace","productName":"Widget","quantity":5}`
	rec := httptest.NewRecorder()
	if err := v1.Create(rec, httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))); err != nil {
		t.Fatal(err)
	}
	var created domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	getRec := httptest.NewRecorder()
	getReq := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/orders/"+created.OrderID, nil), "id", created.OrderID)
	if err := v1.Get(getRec, getReq); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var got domain.Order
	if err := json.Unmarshal(getRec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.OrderID != created.OrderID {
		t.Errorf("OrderID = %s, want %s", got.OrderID, created.OrderID)
	}
}
