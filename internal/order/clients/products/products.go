package products

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/pkg/httpx"
)

// Product is the catalog view of a product.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

var ErrNotFound = errors.New("product not found")

// ReserveError reports a rejected reservation.
type ReserveError struct {
	ProductID int64
	Status    int
}

func (e *ReserveError) Error() string {
	return fmt.Sprintf("reservation rejected for product %d (status %d)", e.ProductID, e.Status)
}

// Reason names the engine's verdict behind the rejection.
func (e *ReserveError) Reason() string {
	if e.Status == http.StatusNotFound {
		return "product not found"
	}

	return "insufficient stock"
}

// Client calls the product service for pricing and stock reservation.
type Client struct {
	baseURL string
	http    *httpx.Client
}

func NewClient(baseURL string, http *httpx.Client) *Client {
	return &Client{baseURL: baseURL, http: http}
}

// GetProduct returns the catalog record for a product id.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var product Product
	url := fmt.Sprintf("%s/products/%d", c.baseURL, productID)
	status, err := c.http.DoJSON(ctx, http.MethodGet, url, nil, nil, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	if status != http.StatusOK {
		return nil, ErrNotFound
	}

	return &product, nil
}

type reserveRequest struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// Reserve asks the inventory engine to decrement stock for one cart line.
// A granted reservation is permanent: the engine exposes no release.
func (c *Client) Reserve(ctx context.Context, productID int64, qty int) error {
	body := reserveRequest{ProductID: productID, Qty: qty}
	status, err := c.http.DoJSON(ctx, http.MethodPost, c.baseURL+"/reserve", nil, body, nil)
	if err != nil {
		return fmt.Errorf("failed to reserve product %d: %w", productID, err)
	}
	if status != http.StatusOK {
		return &ReserveError{ProductID: productID, Status: status}
	}

	return nil
}
