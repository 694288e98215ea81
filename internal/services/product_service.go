package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"storeapi/internal/models"
	"storeapi/internal/repositories"
)

// ErrStoreInconsistent is returned when a document written by this service
// cannot be read back immediately afterwards.
var ErrStoreInconsistent = errors.New("product not found immediately after write")

// EventPublisher publishes product lifecycle events to a message broker.
type EventPublisher interface {
	PublishProductEvent(event string, payload interface{}) error
}

// ProductService is the record mapper for products: it owns identifier
// generation, timestamp stamping, and the translation between API shapes and
// store documents. Lookups that match nothing return (nil, nil); errors mean
// the store itself failed.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. The publisher may be nil,
// which disables event publishing.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// CreateProduct generates a fresh id, stamps both timestamps, writes the
// full document, and returns the document as read back from the store.
func (s *ProductService) CreateProduct(ctx context.Context, in *models.ProductIn) (*models.Product, error) {
	now := time.Now().UTC()
	product := &models.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Quantity:  *in.Quantity,
		Price:     *in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}

	created, err := s.readBack(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.publish("product.created", created)
	return created, nil
}

// GetAllProducts retrieves every product in store-native order. An empty
// collection yields an empty slice, not an error.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductByID retrieves a single product, or (nil, nil) when no product
// has the given id.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProduct applies the present fields of the patch to an existing
// product, bumps updated_at, and returns the refreshed document. A missing
// id returns (nil, nil) without writing anything. The id itself is never
// modified.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch *models.ProductUpdate) (*models.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if err := s.repo.UpdateFields(ctx, id, patch, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.readBack(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish("product.updated", updated)
	return updated, nil
}

// DeleteProduct removes a product, reporting true iff exactly one document
// was deleted. A missing id is a normal false outcome, not an error.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish("product.deleted", map[string]string{"id": id})
	}
	return deleted, nil
}

// GetProductsByPriceRange retrieves products priced within the inclusive
// [min, max] range; a nil bound leaves that side unbounded.
func (s *ProductService) GetProductsByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]models.Product, error) {
	return s.repo.FindByPriceRange(ctx, minPrice, maxPrice)
}

// readBack re-reads a just-written document and re-validates its output
// shape.
func (s *ProductService) readBack(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreInconsistent, id)
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("stored product %s failed validation: %w", id, err)
	}
	return product, nil
}

// publish sends a lifecycle event on a best-effort basis; failures are
// logged and never surfaced to the caller.
func (s *ProductService) publish(event string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(event, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
	}
}
