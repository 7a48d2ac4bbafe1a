package createproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/product/service/models/product"
)

type service interface {
	Create(ctx context.Context, p product.Product) (int64, error)
}

// createProductRequest represents a create product request.
type createProductRequest struct {
	Name  string          `json:"name"  validate:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
}

// Validate validates the create product request.
func (r *createProductRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreateProduct handles the catalog create request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create product", "error", err)

		return
	}

	if _, err := service.Create(r.Context(), product.Product{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating product", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"created":true}`)); err != nil {
		slog.Error("Error sending response for create product", "error", err)
	}
}
