package types

import "time"

// Product is a catalog item. BrandID optionally references a Brand; the
// reference is not enforced by the store.
type Product struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price" validate:"gte=0"`
	Stock       int        `json:"stock" validate:"gte=0"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	BrandID     string     `json:"brandId"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// EntityID returns the product's document ID.
func (p Product) EntityID() string { return p.ID }

// Validate checks the product form fields. Price and stock must be
// non-negative; nothing below this layer enforces it.
func (p Product) Validate() error { return Validate(p) }

// Value returns price times stock.
func (p Product) Value() float64 {
	return p.Price * float64(p.Stock)
}
