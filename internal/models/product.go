package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Product is the persisted and API-facing shape of a product. The ID is a
// UUID string stored as the document's _id; it is assigned once at creation
// and never changes.
type Product struct {
	ID        string    `json:"id" bson:"_id" validate:"required,uuid"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	Price     float64   `json:"price" bson:"price"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"required"`
}

// Validate checks that a product read back from the store has the full
// output shape: a parseable id and both timestamps present.
func (p *Product) Validate() error {
	return validate.Struct(p)
}

// ProductIn is the creation payload. Quantity and Price are pointers so that
// an explicitly supplied zero is distinguishable from a missing key.
type ProductIn struct {
	Name     string   `json:"name" validate:"required"`
	Quantity *int     `json:"quantity" validate:"required"`
	Price    *float64 `json:"price" validate:"required"`
}

// Validate reports which required fields are missing.
func (in *ProductIn) Validate() error {
	return validate.Struct(in)
}

// ProductUpdate is the partial-update payload. A nil field means "leave the
// stored value untouched"; only non-nil fields are written. A JSON null
// decodes to nil and is treated the same as an omitted key. The payload
// carries no id field, so an id key in the request body is dropped during
// decoding.
type ProductUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Quantity == nil && u.Price == nil
}

// ApplyTo copies the present fields of the patch onto a product.
func (u *ProductUpdate) ApplyTo(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
}
