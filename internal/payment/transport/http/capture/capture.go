package capture

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/payment/service/models/payment"
)

// service is an interface for the service layer.
type service interface {
	Capture(ctx context.Context, idempotencyKey string, amount decimal.Decimal, currency string) (*payment.Record, error)
}

// captureRequest represents a capture request. Currency and source default
// like the reference gateway's sandbox card.
type captureRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
}

// Capture handles a payment capture request.
func Capture(w http.ResponseWriter, r *http.Request, service service) {
	req := captureRequest{
		Currency: "INR",
		Source:   "card_xxx",
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for capture", "error", err)

		return
	}

	idempotencyKey := r.Header.Get("X-Idempotency-Key")

	record, err := service.Capture(r.Context(), idempotencyKey, req.Amount, req.Currency)
	if err != nil {
		writeCaptureError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response for capture", "error", err)
	}
}

func writeCaptureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrKeyRequired), errors.Is(err, payment.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error capturing payment", "error", err)
	}
}
