package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/brandly/pkg/catalog"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(
		newProductAddCmd(a),
		newProductListCmd(a),
		newProductGetCmd(a),
		newProductUpdateCmd(a),
		newProductDeleteCmd(a),
		newProductSearchCmd(a),
	)
	return cmd
}

func newProductAddCmd(a *app) *cobra.Command {
	var p types.Product
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a product",
		Example: `  brandly product add --name Widget --price 10 --stock 5 --brand 0190c2a4-...`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				id, err := c.CreateProduct(cmd.Context(), p)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created product: %s\n", id)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "product name (required)")
	f.StringVar(&p.Description, "description", "", "product description")
	f.StringVar(&p.Category, "category", "", "product category")
	f.Float64Var(&p.Price, "price", 0, "unit price")
	f.IntVar(&p.Stock, "stock", 0, "units in stock")
	f.StringVar(&p.ImageURL, "image-url", "", "product image URL")
	f.StringVar(&p.BrandID, "brand", "", "brand ID")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProductListCmd(a *app) *cobra.Command {
	var brandID, filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the owner's products",
		Long: "List the owner's products with their brand names.\n\n" +
			"--brand limits the list to one brand. --filter keeps products whose name,\n" +
			"description or category contains the term, ignoring case.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				ctx := cmd.Context()
				var products []types.Product
				if brandID != "" {
					var err error
					if products, err = c.BrandProducts(ctx, brandID); err != nil {
						return err
					}
				} else {
					if err := c.Products.FetchAll(ctx); err != nil {
						return err
					}
					products = c.Products.State().Data
				}

				views, err := joinBrands(ctx, c, catalog.FilterProducts(products, filter))
				if err != nil {
					return err
				}
				return a.renderProducts(cmd, views)
			})
		},
	}
	cmd.Flags().StringVar(&brandID, "brand", "", "only products of this brand ID")
	cmd.Flags().StringVar(&filter, "filter", "", "case-insensitive text filter")
	return cmd
}

func newProductGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product with its brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				view, err := c.ProductDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), view)
				}
				printProduct(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func newProductUpdateCmd(a *app) *cobra.Command {
	var (
		name, description, category, imageURL, brandID string
		price                                          float64
		stock                                          int
	)
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update product fields",
		Example: `  brandly product update 0190c2a4-... --stock 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			var patch catalog.ProductPatch
			if changed("name") {
				patch.Name = &name
			}
			if changed("description") {
				patch.Description = &description
			}
			if changed("category") {
				patch.Category = &category
			}
			if changed("price") {
				patch.Price = &price
			}
			if changed("stock") {
				patch.Stock = &stock
			}
			if changed("image-url") {
				patch.ImageURL = &imageURL
			}
			if changed("brand") {
				patch.BrandID = &brandID
			}
			if len(patch.Fields()) == 0 {
				return userError(fmt.Errorf("update: at least one field flag must be provided"))
			}

			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.UpdateProduct(cmd.Context(), args[0], patch); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated product: %s\n", args[0])
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&description, "description", "", "new description")
	f.StringVar(&category, "category", "", "new category")
	f.Float64Var(&price, "price", 0, "new unit price")
	f.IntVar(&stock, "stock", 0, "new stock count")
	f.StringVar(&imageURL, "image-url", "", "new image URL")
	f.StringVar(&brandID, "brand", "", "new brand ID (empty detaches)")
	return cmd
}

func newProductDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.DeleteProduct(cmd.Context(), args[0]); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted product: %s\n", args[0])
				return nil
			})
		},
	}
}

func newProductSearchCmd(a *app) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "List products whose field starts with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				ctx := cmd.Context()
				if err := c.Products.Search(ctx, field, args[0]); err != nil {
					return err
				}
				views, err := joinBrands(ctx, c, c.Products.State().Data)
				if err != nil {
					return err
				}
				return a.renderProducts(cmd, views)
			})
		},
	}
	cmd.Flags().StringVar(&field, "field", "name", "field to match")
	return cmd
}

// joinBrands attaches brand names to products.
func joinBrands(ctx context.Context, c *catalog.Catalog, products []types.Product) ([]catalog.ProductView, error) {
	if err := c.Brands.Load(ctx); err != nil {
		return nil, err
	}
	brands := c.Brands.State().Data
	views := make([]catalog.ProductView, len(products))
	for i, p := range products {
		views[i] = catalog.ProductView{Product: p, BrandName: catalog.BrandName(brands, p.BrandID)}
	}
	return views, nil
}

func (a *app) renderProducts(cmd *cobra.Command, views []catalog.ProductView) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), views)
	}
	printProducts(cmd.OutOrStdout(), views)
	return nil
}
