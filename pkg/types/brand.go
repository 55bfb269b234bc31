package types

import "time"

// Brand is a manufacturer or label that products can reference.
type Brand struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	LogoURL     string     `json:"logoUrl" validate:"omitempty,url"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// EntityID returns the brand's document ID.
func (b Brand) EntityID() string { return b.ID }

// Validate checks the brand form fields.
func (b Brand) Validate() error { return Validate(b) }
