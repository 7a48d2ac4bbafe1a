package reserve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quickmart/backend/internal/product/service/models/product"
)

type service interface {
	Reserve(ctx context.Context, id int64, qty int) error
}

// reserveRequest represents a stock reservation request.
type reserveRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Qty       int   `json:"qty"        validate:"gt=0"`
}

// Validate validates the reserve request.
func (r *reserveRequest) Validate() error {
	return validator.New().Struct(r)
}

// Reserve handles the stock reservation request.
func Reserve(w http.ResponseWriter, r *http.Request, service service) {
	req := reserveRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for reserve", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for reserve", "error", err)

		return
	}

	err := service.Reserve(r.Context(), req.ProductID, req.Qty)
	switch {
	case errors.Is(err, product.ErrNotFound):
		http.Error(w, "Product not found", http.StatusNotFound)

		return
	case errors.Is(err, product.ErrInsufficientStock):
		http.Error(w, "Insufficient stock", http.StatusConflict)

		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error reserving stock", "product_id", req.ProductID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"reserved":true}`)); err != nil {
		slog.Error("Error sending response for reserve", "error", err)
	}
}
