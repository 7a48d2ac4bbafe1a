package placeorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/order/service/models/cart"
	"github.com/quickmart/backend/internal/order/service/models/order"
	"github.com/quickmart/backend/internal/order/service/models/saga"
)

type stubService struct {
	placed *order.Order
	err    error
	called bool
}

func (s *stubService) PlaceOrder(_ context.Context, _ string, _ []cart.Item) (*order.Order, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}

	return s.placed, nil
}

func doRequest(t *testing.T, svc service, authorization string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	PlaceOrder(w, req, svc)

	return w
}

const validBody = `{"items":[{"product_id":1,"qty":2}]}`

func TestPlaceOrderSuccess(t *testing.T) {
	svc := &stubService{
		placed: &order.Order{
			ID:     42,
			UserID: 7,
			Total:  decimal.RequireFromString("23.34"),
			Status: order.StatusConfirmed,
		},
	}

	w := doRequest(t, svc, "Bearer tok", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		OrderID int64       `json:"order_id"`
		Total   json.Number `json:"total"`
		Status  string      `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OrderID != 42 {
		t.Fatalf("order_id = %d, want 42", resp.OrderID)
	}
	if resp.Total != "23.34" {
		t.Fatalf("total = %s, want 23.34", resp.Total)
	}
	if resp.Status != "CONFIRMED" {
		t.Fatalf("status = %s, want CONFIRMED", resp.Status)
	}
}

func TestPlaceOrderMissingAuthorizationShortCircuits(t *testing.T) {
	svc := &stubService{}

	w := doRequest(t, svc, "", validBody)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if svc.called {
		t.Fatal("service must not run without an Authorization header")
	}
}

func TestPlaceOrderRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"items":`},
		{name: "missing items", body: `{}`},
		{name: "zero qty", body: `{"items":[{"product_id":1,"qty":0}]}`},
		{name: "negative product id", body: `{"items":[{"product_id":-1,"qty":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}

			w := doRequest(t, svc, "Bearer tok", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if svc.called {
				t.Fatal("service must not run on an invalid body")
			}
		})
	}
}

func TestPlaceOrderAbortReasonStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "rejected credential",
			err:      saga.ErrUnauthorized,
			wantCode: http.StatusUnauthorized,
			wantBody: "Invalid token",
		},
		{
			name:     "unknown product",
			err:      &saga.ProductNotFoundError{ProductID: 5},
			wantCode: http.StatusNotFound,
			wantBody: "Product 5 not found",
		},
		{
			name:     "declined payment",
			err:      saga.ErrPaymentDeclined,
			wantCode: http.StatusPaymentRequired,
			wantBody: "Payment failed",
		},
		{
			name:     "stock conflict",
			err:      &saga.StockUnavailableError{ProductID: 5, Reason: "insufficient stock"},
			wantCode: http.StatusConflict,
			wantBody: "Stock issue for product 5",
		},
		{
			name:     "missing product at reservation",
			err:      &saga.StockUnavailableError{ProductID: 5, Reason: "product not found"},
			wantCode: http.StatusConflict,
			wantBody: "Stock issue for product 5",
		},
		{
			name:     "collaborator unavailable",
			err:      saga.ErrUpstreamUnavailable,
			wantCode: http.StatusBadGateway,
			wantBody: "Upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}

			w := doRequest(t, svc, "Bearer tok", validBody)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tt.wantBody {
				t.Fatalf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}
