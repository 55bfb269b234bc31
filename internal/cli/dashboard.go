package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/brandly/pkg/catalog"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show product and brand counts and inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCatalog(cmd.Context(), func(c *catalog.Catalog) error {
				d, err := c.Summary(cmd.Context())
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), d)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Products:        %d\n", d.Products)
				fmt.Fprintf(out, "Brands:          %d\n", d.Brands)
				fmt.Fprintf(out, "Inventory value: %.2f\n", d.InventoryValue)
				return nil
			})
		},
	}
}
