package productsvc

import (
	"context"
	"log/slog"

	"github.com/quickmart/backend/internal/product/dal/interfaces/iproductrepo"
	"github.com/quickmart/backend/internal/product/service/models/product"
)

// ProductService owns the catalog and the stock counters.
type ProductService struct {
	repo iproductrepo.Repository
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.Repository) option {
	return func(s *ProductService) {
		s.repo = repo
	}
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, p product.Product) (int64, error) {
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, err
	}

	slog.Info("product created", "product_id", id, "name", p.Name)

	return id, nil
}

// List returns the full catalog.
func (s *ProductService) List(ctx context.Context) ([]product.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}

	return products, nil
}

// Get returns one catalog entry.
func (s *ProductService) Get(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.Get(ctx, id)
}

// Reserve grants a permanent stock reservation, or reports why it cannot.
func (s *ProductService) Reserve(ctx context.Context, id int64, qty int) error {
	if err := s.repo.Reserve(ctx, id, qty); err != nil {
		return err
	}

	slog.Info("stock reserved", "product_id", id, "qty", qty)

	return nil
}
