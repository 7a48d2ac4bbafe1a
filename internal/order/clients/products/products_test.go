package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/pkg/httpx"
)

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/1" {
			w.WriteHeader(http.StatusNotFound)

			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "name": "soap", "price": "10.00", "stock": 5,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, httpx.NewClient(time.Second))

	product, err := client.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product.Name != "soap" {
		t.Fatalf("name = %q, want %q", product.Name, "soap")
	}
	if !product.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("price = %s, want 10.00", product.Price)
	}

	_, err = client.GetProduct(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReserve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID int64 `json:"product_id"`
			Qty       int   `json:"qty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		switch {
		case req.ProductID == 99:
			http.Error(w, "Product not found", http.StatusNotFound)
		case req.Qty > 5:
			http.Error(w, "Insufficient stock", http.StatusConflict)
		default:
			_, _ = w.Write([]byte(`{"reserved":true}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, httpx.NewClient(time.Second))
	ctx := context.Background()

	if err := client.Reserve(ctx, 1, 2); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	var reserveErr *ReserveError

	err := client.Reserve(ctx, 1, 10)
	if !errors.As(err, &reserveErr) {
		t.Fatalf("err = %v, want ReserveError", err)
	}
	if reserveErr.Reason() != "insufficient stock" {
		t.Fatalf("reason = %q, want %q", reserveErr.Reason(), "insufficient stock")
	}

	err = client.Reserve(ctx, 99, 1)
	if !errors.As(err, &reserveErr) {
		t.Fatalf("err = %v, want ReserveError", err)
	}
	if reserveErr.Reason() != "product not found" {
		t.Fatalf("reason = %q, want %q", reserveErr.Reason(), "product not found")
	}
}
