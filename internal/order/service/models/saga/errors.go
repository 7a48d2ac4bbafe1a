package saga

import (
	"errors"
	"fmt"
)

// Abort reasons. The orchestrator maps the first collaborator failure it
// meets to exactly one of these; the transport layer maps them one-to-one to
// response statuses.
var (
	ErrUnauthorized        = errors.New("missing or invalid credential")
	ErrPaymentDeclined     = errors.New("payment failed")
	ErrUpstreamUnavailable = errors.New("collaborator unavailable")
)

// ProductNotFoundError aborts the pricing step when a cart line references an
// unknown product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// StockUnavailableError aborts the reservation step. Reason carries the
// engine's verdict (product missing or insufficient stock); either way the
// caller sees a stock conflict.
type StockUnavailableError struct {
	ProductID int64
	Reason    string
}

func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("stock issue for product %d: %s", e.ProductID, e.Reason)
}
