package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/brandly/pkg/catalog"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printTable renders rows under header with aligned columns, trimming
// trailing padding from each line.
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func printBrands(w io.Writer, brands []types.Brand) {
	if len(brands) == 0 {
		fmt.Fprintln(w, "No brands found.")
		return
	}
	rows := make([][]string, len(brands))
	for i, b := range brands {
		rows[i] = []string{b.ID, truncate(b.Name, 30), truncate(b.Description, 40), b.CreatedAt.Format("2006-01-02")}
	}
	printTable(w, []string{"ID", "NAME", "DESCRIPTION", "CREATED"}, rows)
	fmt.Fprintf(w, "Total: %d brand(s)\n", len(brands))
}

func printBrand(w io.Writer, b types.Brand) {
	fmt.Fprintf(w, "ID:          %s\n", b.ID)
	fmt.Fprintf(w, "Name:        %s\n", b.Name)
	fmt.Fprintf(w, "Description: %s\n", b.Description)
	fmt.Fprintf(w, "Logo:        %s\n", b.LogoURL)
	fmt.Fprintf(w, "Created:     %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"))
	if b.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:     %s\n", b.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printProducts(w io.Writer, products []catalog.ProductView) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			p.ID,
			truncate(p.Name, 30),
			p.Category,
			fmt.Sprintf("%.2f", p.Price),
			fmt.Sprintf("%d", p.Stock),
			truncate(p.BrandName, 20),
		}
	}
	printTable(w, []string{"ID", "NAME", "CATEGORY", "PRICE", "STOCK", "BRAND"}, rows)
	fmt.Fprintf(w, "Total: %d product(s)\n", len(products))
}

func printProduct(w io.Writer, p catalog.ProductView) {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Name:        %s\n", p.Name)
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	fmt.Fprintf(w, "Category:    %s\n", p.Category)
	fmt.Fprintf(w, "Price:       %.2f\n", p.Price)
	fmt.Fprintf(w, "Stock:       %d\n", p.Stock)
	fmt.Fprintf(w, "Image:       %s\n", p.ImageURL)
	fmt.Fprintf(w, "Brand:       %s\n", p.BrandName)
	fmt.Fprintf(w, "Created:     %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	if p.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:     %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
