// Package catalog implements the Brandly brand and product use cases on top
// of the collection accessors: validated writes, cascading brand deletion,
// product filtering, the product-to-brand lookup and the dashboard summary.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/brandly/pkg/accessor"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

// NoBrand is shown for products whose brand cannot be resolved.
const NoBrand = "No Brand"

// Catalog holds the brand and product accessors of one owner. Both share a
// cache so constrained views and the full lists stay in one place.
type Catalog struct {
	store  types.Store
	cache  *accessor.Cache
	logger zerolog.Logger

	Brands   *accessor.Accessor[types.Brand]
	Products *accessor.Accessor[types.Product]
}

// New builds a Catalog for owner over an attached store.
func New(store types.Store, owner string, logger zerolog.Logger) (*Catalog, error) {
	cache := accessor.NewCache()
	opts := []accessor.Option{accessor.WithCache(cache), accessor.WithLogger(logger)}

	brands, err := accessor.New[types.Brand](store, types.BrandsCollection, owner, opts...)
	if err != nil {
		return nil, fmt.Errorf("brands accessor: %w", err)
	}
	products, err := accessor.New[types.Product](store, types.ProductsCollection, owner, opts...)
	if err != nil {
		return nil, fmt.Errorf("products accessor: %w", err)
	}

	return &Catalog{
		store:    store,
		cache:    cache,
		logger:   logger,
		Brands:   brands,
		Products: products,
	}, nil
}

// Owner returns the owner identity the catalog is bound to.
func (c *Catalog) Owner() string { return c.Brands.Owner() }

// SetOwner rebinds both accessors and fetches the new owner's documents.
func (c *Catalog) SetOwner(ctx context.Context, owner string) error {
	return errors.Join(
		c.Brands.SetOwner(ctx, owner),
		c.Products.SetOwner(ctx, owner),
	)
}

// CreateBrand validates b and adds it for the current owner.
func (c *Catalog) CreateBrand(ctx context.Context, b types.Brand) (string, error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	return c.Brands.Add(ctx, b)
}

// CreateProduct validates p and adds it for the current owner. The brand
// reference is not checked.
func (c *Catalog) CreateProduct(ctx context.Context, p types.Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return c.Products.Add(ctx, p)
}

// UpdateBrand validates and applies a partial update. An empty patch is a
// no-op.
func (c *Catalog) UpdateBrand(ctx context.Context, id string, patch BrandPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return c.Brands.Update(ctx, id, fields)
}

// UpdateProduct validates and applies a partial update. An empty patch is a
// no-op.
func (c *Catalog) UpdateProduct(ctx context.Context, id string, patch ProductPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return c.Products.Update(ctx, id, fields)
}

// DeleteBrand deletes the owner's products that reference the brand, then
// the brand itself. A failure leaves any remaining products and the brand in
// place.
func (c *Catalog) DeleteBrand(ctx context.Context, id string) error {
	products, err := c.BrandProducts(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := c.Products.Remove(ctx, p.ID); err != nil {
			return fmt.Errorf("delete product %s of brand %s: %w", p.ID, id, err)
		}
	}
	if len(products) > 0 {
		c.cache.InvalidateCollection(types.ProductsCollection)
		c.logger.Info().Str("brand", id).Int("products", len(products)).Msg("deleted brand products")
	}
	return c.Brands.Remove(ctx, id)
}

// DeleteProduct deletes one product.
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	return c.Products.Remove(ctx, id)
}

// BrandProducts fetches the owner's products that reference brandID.
func (c *Catalog) BrandProducts(ctx context.Context, brandID string) ([]types.Product, error) {
	if brandID == "" {
		return nil, types.ErrInvalidID
	}
	view, err := accessor.New[types.Product](c.store, types.ProductsCollection, c.Owner(),
		accessor.WithCache(c.cache),
		accessor.WithLogger(c.logger),
		accessor.WithConstraints(types.Where("brandId", brandID)),
	)
	if err != nil {
		return nil, err
	}
	if err := view.FetchAll(ctx); err != nil {
		return nil, err
	}
	return view.State().Data, nil
}

// Brand returns one brand of the owner, loading the brand list if needed.
func (c *Catalog) Brand(ctx context.Context, id string) (types.Brand, error) {
	if err := c.Brands.Load(ctx); err != nil {
		return types.Brand{}, err
	}
	b, ok := c.Brands.Find(id)
	if !ok {
		return types.Brand{}, fmt.Errorf("brand %s: %w", id, types.ErrNotFound)
	}
	return b, nil
}

// Product returns one product of the owner, loading the product list if
// needed.
func (c *Catalog) Product(ctx context.Context, id string) (types.Product, error) {
	if err := c.Products.Load(ctx); err != nil {
		return types.Product{}, err
	}
	p, ok := c.Products.Find(id)
	if !ok {
		return types.Product{}, fmt.Errorf("product %s: %w", id, types.ErrNotFound)
	}
	return p, nil
}
