package iproductrepo

import (
	"context"

	"github.com/quickmart/backend/internal/product/service/models/product"
)

// Repository owns the product rows, stock counter included.
//
// Reserve is the atomic conditional decrement: stock drops by qty only if the
// result stays non-negative, as one indivisible read-modify-write. Two
// concurrent reservations against the same product can never both succeed
// when together they would oversell. A granted reservation is permanent;
// there is no release.
type Repository interface {
	Create(ctx context.Context, p product.Product) (int64, error)
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id int64) (*product.Product, error)
	// Reserve returns product.ErrNotFound or product.ErrInsufficientStock
	// when the decrement cannot be granted.
	Reserve(ctx context.Context, id int64, qty int) error
}
