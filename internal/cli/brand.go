package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/brandly/pkg/catalog"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

func newBrandCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Manage brands",
	}
	cmd.AddCommand(
		newBrandAddCmd(a),
		newBrandListCmd(a),
		newBrandGetCmd(a),
		newBrandUpdateCmd(a),
		newBrandDeleteCmd(a),
		newBrandSearchCmd(a),
	)
	return cmd
}

func newBrandAddCmd(a *app) *cobra.Command {
	var b types.Brand
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a brand",
		Example: `  brandly brand add --name Acme --description "Hand tools"
  brandly brand add --name Acme --logo-url https://cdn.example.com/acme.png --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				id, err := c.CreateBrand(cmd.Context(), b)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": id})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created brand: %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&b.Name, "name", "", "brand name (required)")
	cmd.Flags().StringVar(&b.Description, "description", "", "brand description")
	cmd.Flags().StringVar(&b.LogoURL, "logo-url", "", "logo image URL")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newBrandListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.Brands.FetchAll(cmd.Context()); err != nil {
					return err
				}
				return a.renderBrands(cmd, c.Brands.State().Data)
			})
		},
	}
}

func newBrandGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				b, err := c.Brand(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), b)
				}
				printBrand(cmd.OutOrStdout(), b)
				return nil
			})
		},
	}
}

func newBrandUpdateCmd(a *app) *cobra.Command {
	var name, description, logoURL string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update brand fields",
		Example: `  brandly brand update 0190c2a4-... --name "Acme Corp"
  brandly brand update 0190c2a4-... --logo-url ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch catalog.BrandPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("logo-url") {
				patch.LogoURL = &logoURL
			}
			if len(patch.Fields()) == 0 {
				return userError(fmt.Errorf("update: at least one of --name, --description or --logo-url must be provided"))
			}

			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.UpdateBrand(cmd.Context(), args[0], patch); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated brand: %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "new logo URL (empty clears it)")
	return cmd
}

func newBrandDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a brand and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.DeleteBrand(cmd.Context(), args[0]); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"id": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted brand: %s\n", args[0])
				return nil
			})
		},
	}
}

func newBrandSearchCmd(a *app) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "List brands whose field starts with a prefix",
		Example: `  brandly brand search Bra
  brandly brand search --field description Hand`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				if err := c.Brands.Search(cmd.Context(), field, args[0]); err != nil {
					return err
				}
				return a.renderBrands(cmd, c.Brands.State().Data)
			})
		},
	}
	cmd.Flags().StringVar(&field, "field", "name", "field to match")
	return cmd
}

func (a *app) renderBrands(cmd *cobra.Command, brands []types.Brand) error {
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), brands)
	}
	printBrands(cmd.OutOrStdout(), brands)
	return nil
}
