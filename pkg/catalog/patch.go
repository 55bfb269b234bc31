package catalog

import "github.com/mesh-intelligence/brandly/pkg/types"

// BrandPatch is a partial brand update. Nil fields are left unchanged.
type BrandPatch struct {
	Name        *string
	Description *string
	LogoURL     *string
}

// Validate applies the patch to a valid placeholder brand and validates the
// result, so patched fields obey the same rules as new brands.
func (p BrandPatch) Validate() error {
	b := types.Brand{Name: "placeholder"}
	p.apply(&b)
	return b.Validate()
}

func (p BrandPatch) apply(b *types.Brand) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.LogoURL != nil {
		b.LogoURL = *p.LogoURL
	}
}

// Fields returns the set fields keyed by document field name.
func (p BrandPatch) Fields() map[string]any {
	fields := map[string]any{}
	setString(fields, "name", p.Name)
	setString(fields, "description", p.Description)
	setString(fields, "logoUrl", p.LogoURL)
	return fields
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Stock       *int
	ImageURL    *string
	BrandID     *string
}

// Validate applies the patch to a valid placeholder product and validates
// the result.
func (p ProductPatch) Validate() error {
	prod := types.Product{Name: "placeholder"}
	p.apply(&prod)
	return prod.Validate()
}

func (p ProductPatch) apply(prod *types.Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.BrandID != nil {
		prod.BrandID = *p.BrandID
	}
}

// Fields returns the set fields keyed by document field name.
func (p ProductPatch) Fields() map[string]any {
	fields := map[string]any{}
	setString(fields, "name", p.Name)
	setString(fields, "description", p.Description)
	setString(fields, "category", p.Category)
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Stock != nil {
		fields["stock"] = *p.Stock
	}
	setString(fields, "imageUrl", p.ImageURL)
	setString(fields, "brandId", p.BrandID)
	return fields
}

func setString(fields map[string]any, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}
