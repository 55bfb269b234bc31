package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

func TestFilterProducts(t *testing.T) {
	products := []types.Product{
		{ID: "1", Name: "Claw Hammer", Category: "Tools"},
		{ID: "2", Name: "Desk Lamp", Description: "LED lamp with hammered finish", Category: "Lighting"},
		{ID: "3", Name: "Sofa", Category: "Furniture"},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "empty term", term: "", wantIDs: []string{"1", "2", "3"}},
		{name: "name match ignores case", term: "HAMMER", wantIDs: []string{"1", "2"}},
		{name: "category match", term: "furn", wantIDs: []string{"3"}},
		{name: "surrounding space", term: "  lamp ", wantIDs: []string{"2"}},
		{name: "no match", term: "zebra", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(products, tt.term)
			ids := []string{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBrandName(t *testing.T) {
	brands := []types.Brand{{ID: "b1", Name: "Acme"}}
	assert.Equal(t, "Acme", BrandName(brands, "b1"))
	assert.Equal(t, NoBrand, BrandName(brands, "gone"))
	assert.Equal(t, NoBrand, BrandName(brands, ""))
}

func TestProductDetail(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCatalog(t, "owner-a")

	acme, err := c.CreateBrand(ctx, types.Brand{Name: "Acme"})
	require.NoError(t, err)
	withBrand, err := c.CreateProduct(ctx, types.Product{Name: "Hammer", BrandID: acme})
	require.NoError(t, err)
	orphan, err := c.CreateProduct(ctx, types.Product{Name: "Orphan", BrandID: "deleted-brand"})
	require.NoError(t, err)

	view, err := c.ProductDetail(ctx, withBrand)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", view.Name)
	assert.Equal(t, "Acme", view.BrandName)

	view, err = c.ProductDetail(ctx, orphan)
	require.NoError(t, err)
	assert.Equal(t, NoBrand, view.BrandName)

	_, err = c.ProductDetail(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	views, err := c.ProductViews(ctx)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	c, s := setupCatalog(t, "owner-a")

	acme, err := c.CreateBrand(ctx, types.Brand{Name: "Acme"})
	require.NoError(t, err)
	_, err = c.CreateBrand(ctx, types.Brand{Name: "Globex"})
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, types.Product{Name: "Widget", Price: 10, Stock: 5, BrandID: acme})
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, types.Product{Name: "Gadget", Price: 2.5, Stock: 4})
	require.NoError(t, err)

	d, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{Products: 2, Brands: 2, InventoryValue: 60}, d)

	empty, err := New(s, "owner-b", c.logger)
	require.NoError(t, err)
	d, err = empty.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{}, d)
}
