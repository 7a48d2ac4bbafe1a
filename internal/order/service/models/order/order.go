package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/order/service/models/cart"
)

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// Order is the durable record of a completed saga run. It embeds the priced
// item snapshot and the total that was actually charged; catalog prices may
// change afterwards without affecting it. Orders are written once and never
// updated.
type Order struct {
	ID        int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Items     []cart.Item     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
