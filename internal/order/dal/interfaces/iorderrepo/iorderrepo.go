package iorderrepo

import (
	"context"

	"github.com/quickmart/backend/internal/order/service/models/order"
)

// Repository is the order store. The orchestrator is its only writer and
// only ever appends: one insert per confirmed saga, no updates, no deletes.
type Repository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
