package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storeapi/internal/models"
	"storeapi/internal/repositories"
	"storeapi/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateFields(ctx context.Context, id string, patch *models.ProductUpdate, updatedAt time.Time) error {
	args := m.Called(ctx, id, patch, updatedAt)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]models.Product, error) {
	args := m.Called(ctx, minPrice, maxPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(event string, payload interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

func productIn(name string, quantity int, price float64) *models.ProductIn {
	return &models.ProductIn{Name: name, Quantity: intPtr(quantity), Price: floatPtr(price)}
}

func TestProductService_CreateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	created, err := service.CreateProduct(context.Background(), productIn("Smartphone", 10, 999.99))

	require.NoError(t, err)
	require.NotNil(t, created)

	// The service owns identifier generation and timestamp stamping.
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Smartphone", created.Name)
	assert.Equal(t, 10, created.Quantity)
	assert.Equal(t, 999.99, created.Price)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// The returned product is the document as read back from the store.
	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, *created, *stored)
}

func TestProductService_CreateProduct_StoreFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(fmt.Errorf("connection reset")).Once()

	created, err := service.CreateProduct(context.Background(), productIn("Doomed", 1, 1.00))

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Contains(t, err.Error(), "connection reset")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_ReadBackMissing(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil).Once()

	created, err := service.CreateProduct(context.Background(), productIn("Ghost", 1, 1.00))

	assert.Nil(t, created)
	assert.ErrorIs(t, err, services.ErrStoreInconsistent)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_PublishesEvent(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	events := new(MockEventPublisher)
	service := services.NewProductService(repo, events)

	events.On("PublishProductEvent", "product.created", mock.Anything).Return(nil).Once()

	_, err := service.CreateProduct(context.Background(), productIn("Keyboard", 25, 75.00))

	require.NoError(t, err)
	events.AssertExpectations(t)
}

func TestProductService_GetAllProducts(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	// An empty collection yields an empty slice, never an error.
	products, err := service.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = service.CreateProduct(context.Background(), productIn("Laptop", 5, 1200.00))
	require.NoError(t, err)
	_, err = service.CreateProduct(context.Background(), productIn("Mouse", 50, 25.00))
	require.NoError(t, err)

	products, err = service.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_GetProductByID(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	created, err := service.CreateProduct(context.Background(), productIn("Monitor", 8, 200.00))
	require.NoError(t, err)

	product, err := service.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, *created, *product)

	// Repeated reads with no intervening mutation are identical.
	again, err := service.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *product, *again)

	// Absence is (nil, nil), not an error.
	missing, err := service.GetProductByID(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductService_UpdateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	created, err := service.CreateProduct(context.Background(), productIn("Desk", 10, 300.00))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	patch := &models.ProductUpdate{
		Name:  stringPtr("Standing Desk"),
		Price: floatPtr(450.00),
	}
	updated, err := service.UpdateProduct(context.Background(), created.ID, patch)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Standing Desk", updated.Name)
	assert.Equal(t, 450.00, updated.Price)
	assert.Equal(t, 10, updated.Quantity) // untouched by the patch
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, nil).Once()

	updated, err := service.UpdateProduct(context.Background(), id, &models.ProductUpdate{Name: stringPtr("x")})

	assert.NoError(t, err)
	assert.Nil(t, updated)
	// A missing document must not trigger a write.
	mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_EmptyPatch(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	created, err := service.CreateProduct(context.Background(), productIn("Lamp", 3, 45.00))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := service.UpdateProduct(context.Background(), created.ID, &models.ProductUpdate{})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Quantity, updated.Quantity)
	assert.Equal(t, created.Price, updated.Price)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	created, err := service.CreateProduct(context.Background(), productIn("Chair", 4, 80.00))
	require.NoError(t, err)

	deleted, err := service.DeleteProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting then fetching finds nothing.
	product, err := service.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, product)

	// Deleting a nonexistent id is a normal false outcome.
	deleted, err = service.DeleteProduct(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestProductService_GetProductsByPriceRange(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil)

	for _, p := range []struct {
		name  string
		price float64
	}{
		{"Cheap", 50.00},
		{"Mid", 150.00},
		{"Pricey", 250.00},
	} {
		_, err := service.CreateProduct(context.Background(), productIn(p.name, 1, p.price))
		require.NoError(t, err)
	}

	// Both bounds: only the mid-priced product falls inside [100, 200].
	products, err := service.GetProductsByPriceRange(context.Background(), floatPtr(100), floatPtr(200))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mid", products[0].Name)

	// Bounds are inclusive.
	products, err = service.GetProductsByPriceRange(context.Background(), floatPtr(50), floatPtr(150))
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// Only a lower bound.
	products, err = service.GetProductsByPriceRange(context.Background(), floatPtr(200), nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pricey", products[0].Name)

	// Only an upper bound.
	products, err = service.GetProductsByPriceRange(context.Background(), nil, floatPtr(100))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Cheap", products[0].Name)

	// No bounds returns everything.
	products, err = service.GetProductsByPriceRange(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
