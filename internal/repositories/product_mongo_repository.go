package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storeapi/internal/models"
)

// productCollection is the single collection holding product documents.
const productCollection = "products"

// MongoProductRepository is a MongoDB implementation of ProductRepository.
// Documents are keyed by _id = the product's UUID string, not a
// store-generated ObjectID.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection(productCollection),
	}
}

// Insert writes a new product document.
func (r *MongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// FindAll retrieves every product document in store-native order.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

// FindByID retrieves a single product by its id, or (nil, nil) when no
// document matches.
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return &product, nil
}

// UpdateFields applies the non-nil patch fields and the new updated_at via a
// single $set. The _id is never part of the update document.
func (r *MongoProductRepository) UpdateFields(ctx context.Context, id string, patch *models.ProductUpdate, updatedAt time.Time) error {
	set := bson.M{"updated_at": updatedAt}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return nil
}

// Delete removes the product with the given id and reports whether a
// document was actually deleted.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

// FindByPriceRange retrieves products whose price falls within the given
// inclusive bounds.
func (r *MongoProductRepository) FindByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]models.Product, error) {
	filter := bson.M{}
	priceFilter := bson.M{}
	if minPrice != nil {
		priceFilter["$gte"] = *minPrice
	}
	if maxPrice != nil {
		priceFilter["$lte"] = *maxPrice
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}
	return r.find(ctx, filter)
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
