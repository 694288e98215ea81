package repositories

import (
	"context"
	"time"

	"storeapi/internal/models"
)

// ProductRepository defines the interface for product document access.
// Lookups return (nil, nil) when no document matches: absence is a normal
// outcome at this boundary, never an error. Errors are reserved for store
// failures.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// UpdateFields writes only the non-nil fields of the patch plus the new
	// updated_at timestamp. The document id is never part of the write.
	UpdateFields(ctx context.Context, id string, patch *models.ProductUpdate, updatedAt time.Time) error
	// Delete reports whether exactly one document was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// FindByPriceRange filters on price with inclusive bounds; a nil bound
	// leaves that side unbounded, and two nil bounds return every document.
	FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]models.Product, error)
}
