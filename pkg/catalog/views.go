package catalog

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// ProductView is a product joined with its brand name.
type ProductView struct {
	types.Product
	BrandName string `json:"brandName"`
}

// Dashboard holds the owner's aggregate counts.
type Dashboard struct {
	Products       int     `json:"products"`
	Brands         int     `json:"brands"`
	InventoryValue float64 `json:"inventoryValue"`
}

// FilterProducts returns the products whose name, description or category
// contains term, ignoring case. An empty term returns products unchanged.
func FilterProducts(products []types.Product, term string) []types.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// BrandName resolves a brand ID against brands, falling back to NoBrand.
func BrandName(brands []types.Brand, id string) string {
	if id == "" {
		return NoBrand
	}
	for _, b := range brands {
		if b.ID == id {
			return b.Name
		}
	}
	return NoBrand
}

// ProductDetail returns one product with its brand name. The join happens
// here; the store has no joins.
func (c *Catalog) ProductDetail(ctx context.Context, id string) (ProductView, error) {
	p, err := c.Product(ctx, id)
	if err != nil {
		return ProductView{}, err
	}
	if err := c.Brands.Load(ctx); err != nil {
		return ProductView{}, err
	}
	return ProductView{Product: p, BrandName: BrandName(c.Brands.State().Data, p.BrandID)}, nil
}

// ProductViews fetches all products and brands and joins them.
func (c *Catalog) ProductViews(ctx context.Context) ([]ProductView, error) {
	if err := c.Products.FetchAll(ctx); err != nil {
		return nil, err
	}
	if err := c.Brands.Load(ctx); err != nil {
		return nil, err
	}
	brands := c.Brands.State().Data
	products := c.Products.State().Data
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, BrandName: BrandName(brands, p.BrandID)}
	}
	return views, nil
}

// Summary fetches both collections and computes the dashboard counts.
func (c *Catalog) Summary(ctx context.Context) (Dashboard, error) {
	if err := c.Brands.FetchAll(ctx); err != nil {
		return Dashboard{}, err
	}
	if err := c.Products.FetchAll(ctx); err != nil {
		return Dashboard{}, err
	}
	products := c.Products.State().Data

	var value float64
	for _, p := range products {
		value += p.Value()
	}
	return Dashboard{
		Products:       len(products),
		Brands:         len(c.Brands.State().Data),
		InventoryValue: value,
	}, nil
}
