package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/product/dal/postgres"
	"github.com/quickmart/backend/internal/product/service/models/product"
)

// ProductDal represents the product row shape.
type ProductDal struct {
	Id    int64
	Name  string
	Price string
	Stock int
}

// ToModel converts ProductDal to the service layer Product model.
func (p *ProductDal) ToModel() (*product.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product price: %w", err)
	}

	return &product.Product{
		ID:    p.Id,
		Name:  p.Name,
		Price: price,
		Stock: p.Stock,
	}, nil
}

type PostgresProductRepository struct {
	pgClient *postgres.Client
}

func NewPostgresProductRepository(pgClient *postgres.Client) *PostgresProductRepository {
	return &PostgresProductRepository{
		pgClient: pgClient,
	}
}

// Create inserts a product and returns its id.
func (r *PostgresProductRepository) Create(ctx context.Context, p product.Product) (int64, error) {
	query, args, err := sq.Insert("products").
		Columns("name", "price", "stock").
		Values(p.Name, p.Price.String(), p.Stock).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build product insert query: %w", err)
	}

	var id int64
	if err := r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	return id, nil
}

// List retrieves all products ordered by id.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	query, args, err := sq.Select("id", "name", "price::text", "stock").
		From("products").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build products query: %w", err)
	}

	rows, err := r.pgClient.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		if err := rows.Scan(&dal.Id, &dal.Name, &dal.Price, &dal.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert product dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Get retrieves one product by id.
func (r *PostgresProductRepository) Get(ctx context.Context, id int64) (*product.Product, error) {
	query, args, err := sq.Select("id", "name", "price::text", "stock").
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	var dal ProductDal
	err = r.pgClient.Pool().QueryRow(ctx, query, args...).Scan(&dal.Id, &dal.Name, &dal.Price, &dal.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %d: %w", id, err)
	}

	return dal.ToModel()
}

// Reserve decrements stock by qty only if enough remains, as a single
// conditional UPDATE. When the update touches no row it disambiguates with
// an existence probe.
func (r *PostgresProductRepository) Reserve(ctx context.Context, id int64, qty int) error {
	query, args, err := sq.Update("products").
		Set("stock", sq.Expr("stock - ?", qty)).
		Where(sq.Eq{"id": id}).
		Where(sq.GtOrEq{"stock": qty}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reserve query: %w", err)
	}

	tag, err := r.pgClient.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to reserve product %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	existsQuery, existsArgs, err := sq.Select("1").
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build existence query: %w", err)
	}

	var one int
	err = r.pgClient.Pool().QueryRow(ctx, existsQuery, existsArgs...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return product.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check product %d existence: %w", id, err)
	}

	return product.ErrInsufficientStock
}
