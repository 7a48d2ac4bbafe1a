package payments

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

func TestPaySendsTheIdempotencyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Idempotency-Key"); got != "k1" {
			t.Errorf("X-Idempotency-Key = %q, want %q", got, "k1")
		}

		var req struct {
			Amount   decimal.Decimal `json:"amount"`
			Currency string          `json:"currency"`
			Source   string          `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if req.Currency != "INR" || req.Source != "card_demo" {
			t.Errorf("currency/source = %s/%s, want INR/card_demo", req.Currency, req.Source)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "succeeded", "amount": "23.34", "currency": "INR",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, httpx.NewClient(time.Second))

	receipt, err := client.Pay(
		context.Background(),
		"k1",
		decimal.RequireFromString("23.34"),
		"INR",
		"card_demo",
	)
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if receipt.Status != "succeeded" {
		t.Fatalf("status = %q, want %q", receipt.Status, "succeeded")
	}
	if !receipt.Amount.Equal(decimal.RequireFromString("23.34")) {
		t.Fatalf("amount = %s, want 23.34", receipt.Amount)
	}
}

func TestPayDeclined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, httpx.NewClient(time.Second))

	_, err := client.Pay(context.Background(), "k1", decimal.Zero, "INR", "card_demo")
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("err = %v, want ErrDeclined", err)
	}
}
