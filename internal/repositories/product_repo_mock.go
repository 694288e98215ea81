package repositories

import (
	"context"
	"sync"
	"time"

	"storeapi/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Insert stores a new product document.
func (r *MockProductRepository) Insert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// FindAll returns all products.
func (r *MockProductRepository) FindAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// FindByID returns a product by its id, or (nil, nil) when absent.
func (r *MockProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// UpdateFields applies the present patch fields and the new updated_at to a
// stored product. A missing document is a no-op, matching the store's
// update-by-filter semantics.
func (r *MockProductRepository) UpdateFields(_ context.Context, id string, patch *models.ProductUpdate, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil
	}
	patch.ApplyTo(&product)
	product.UpdatedAt = updatedAt
	r.products[id] = product
	return nil
}

// Delete removes a product by its id and reports whether it existed.
func (r *MockProductRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// FindByPriceRange returns the products whose price falls within the given
// inclusive bounds.
func (r *MockProductRepository) FindByPriceRange(_ context.Context, minPrice, maxPrice *float64) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0)
	for _, p := range r.products {
		if minPrice != nil && p.Price < *minPrice {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		productList = append(productList, p)
	}
	return productList, nil
}
