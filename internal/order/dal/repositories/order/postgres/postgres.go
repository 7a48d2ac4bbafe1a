package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/order/dal/postgres"
	"github.com/quickmart/backend/internal/order/service/models/cart"
	"github.com/quickmart/backend/internal/order/service/models/order"
)

// OrderDal represents the order row shape.
type OrderDal struct {
	Id        int64
	UserId    int64
	Items     []byte
	Total     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	var items []cart.Item
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to decode order items snapshot: %w", err)
	}

	total, err := decimal.NewFromString(o.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order total: %w", err)
	}

	return &order.Order{
		ID:        o.Id,
		UserID:    o.UserId,
		Items:     items,
		Total:     total,
		Status:    order.Status(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}, nil
}

type PostgresOrderRepository struct {
	pgClient *postgres.Client
}

func NewPostgresOrderRepository(pgClient *postgres.Client) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		pgClient: pgClient,
	}
}

// Insert appends one order row and returns it with its generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to encode order items snapshot: %w", err)
	}

	query, args, err := sq.Insert("orders").
		Columns("user_id", "items", "total", "status", "created_at", "updated_at").
		Values(o.UserID, items, o.Total.StringFixed(2), string(o.Status), o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build order insert query: %w", err)
	}

	if err := r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// Query retrieves orders based on filter criteria.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := sq.Select("id", "user_id", "items", "total::text", "status", "created_at", "updated_at").
		From("orders").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.UserIds) > 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserIds})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build orders query: %w", err)
	}

	rows, err := r.pgClient.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.UserId,
			&dal.Items,
			&dal.Total,
			&dal.Status,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
