package types

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandValidate(t *testing.T) {
	tests := []struct {
		name       string
		brand      Brand
		wantFields []string
	}{
		{
			name:  "minimal brand",
			brand: Brand{Name: "Acme"},
		},
		{
			name:  "brand with logo URL",
			brand: Brand{Name: "Acme", Description: "Tools", LogoURL: "https://cdn.example.com/acme.png"},
		},
		{
			name:       "missing name",
			brand:      Brand{Description: "Tools"},
			wantFields: []string{"Name"},
		},
		{
			name:       "malformed logo URL",
			brand:      Brand{Name: "Acme", LogoURL: "not a url"},
			wantFields: []string{"LogoURL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.brand.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidData))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields(), f)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name       string
		product    Product
		wantFields []string
	}{
		{
			name:    "valid product",
			product: Product{Name: "Widget", Price: 10, Stock: 5, BrandID: "b1"},
		},
		{
			name:    "zero price and stock are allowed",
			product: Product{Name: "Freebie"},
		},
		{
			name:       "negative price",
			product:    Product{Name: "Widget", Price: -0.01},
			wantFields: []string{"Price"},
		},
		{
			name:       "negative stock",
			product:    Product{Name: "Widget", Stock: -1},
			wantFields: []string{"Stock"},
		},
		{
			name:       "NaN price",
			product:    Product{Name: "Widget", Price: math.NaN()},
			wantFields: []string{"Price"},
		},
		{
			name:       "missing name and bad image",
			product:    Product{ImageURL: "::"},
			wantFields: []string{"Name", "ImageURL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields(), f)
			}
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestProductValue(t *testing.T) {
	assert.InDelta(t, 50.0, Product{Price: 10, Stock: 5}.Value(), 1e-9)
	assert.Zero(t, Product{Price: 10}.Value())
}
