package getproduct

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quickmart/backend/internal/product/service/models/product"
)

type service interface {
	Get(ctx context.Context, id int64) (*product.Product, error)
}

// GetProduct handles the price lookup request.
func GetProduct(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return
	}

	p, err := service.Get(r.Context(), id)
	if errors.Is(err, product.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)

		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting product", "product_id", id, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response for get product", "error", err)
	}
}
