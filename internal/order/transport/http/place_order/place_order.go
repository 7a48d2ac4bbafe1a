package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quickmart/backend/internal/order/service/models/cart"
	"github.com/quickmart/backend/internal/order/service/models/order"
	"github.com/quickmart/backend/internal/order/service/models/saga"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, authorization string, items []cart.Item) (*order.Order, error)
}

// itemInPlaceOrderRequest represents one cart line in a place order request.
type itemInPlaceOrderRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"qty"        validate:"gt=0"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	Items []itemInPlaceOrderRequest `json:"items" validate:"required,dive"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *placeOrderRequest) toModel() []cart.Item {
	items := make([]cart.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = cart.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return items
}

// placeOrderResponse is the confirmed-order payload returned to the caller.
type placeOrderResponse struct {
	OrderID int64        `json:"order_id"`
	Total   json.Number  `json:"total"`
	Status  order.Status `json:"status"`
}

// PlaceOrder handles the order placement request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		http.Error(w, "Missing Authorization", http.StatusUnauthorized)

		return
	}

	orderReq := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	placed, err := service.PlaceOrder(r.Context(), authorization, orderReq.toModel())
	if err != nil {
		writeSagaError(w, err)

		return
	}

	response := placeOrderResponse{
		OrderID: placed.ID,
		Total:   json.Number(placed.Total.StringFixed(2)),
		Status:  placed.Status,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response for place order", "error", err)
	}
}

// writeSagaError maps each abort reason to exactly one response status.
func writeSagaError(w http.ResponseWriter, err error) {
	var notFound *saga.ProductNotFoundError
	var stock *saga.StockUnavailableError

	switch {
	case errors.Is(err, saga.ErrUnauthorized):
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	case errors.As(err, &notFound):
		http.Error(w, fmt.Sprintf("Product %d not found", notFound.ProductID), http.StatusNotFound)
	case errors.Is(err, saga.ErrPaymentDeclined):
		http.Error(w, "Payment failed", http.StatusPaymentRequired)
	case errors.As(err, &stock):
		http.Error(w, fmt.Sprintf("Stock issue for product %d", stock.ProductID), http.StatusConflict)
	case errors.Is(err, saga.ErrUpstreamUnavailable):
		http.Error(w, "Upstream unavailable", http.StatusBadGateway)
		slog.Error("Order aborted on unavailable collaborator", "error", err)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error placing order", "error", err)
	}
}
