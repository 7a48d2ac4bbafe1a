package memory

import (
	"context"
	"sync"

	"github.com/quickmart/backend/internal/product/service/models/product"
)

// ProductRepository is the in-process product store. The mutex makes Reserve
// one indivisible read-modify-write, matching the Postgres repository's
// conditional UPDATE.
type ProductRepository struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]product.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		nextID:   1,
		products: make(map[int64]product.Product),
	}
}

func (r *ProductRepository) Create(_ context.Context, p product.Product) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	r.products[p.ID] = p

	return p.ID, nil
}

func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]product.Product, 0, len(r.products))
	for id := int64(1); id < r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			result = append(result, p)
		}
	}

	return result, nil
}

func (r *ProductRepository) Get(_ context.Context, id int64) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}

	return &p, nil
}

func (r *ProductRepository) Reserve(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return product.ErrNotFound
	}
	if p.Stock < qty {
		return product.ErrInsufficientStock
	}

	p.Stock -= qty
	r.products[id] = p

	return nil
}
