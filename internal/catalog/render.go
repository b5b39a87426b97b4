package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"catalog/cli/internal/api"

	"github.com/pterm/pterm"
)

// FormatPrice formats a price in dollars with two decimals.
func FormatPrice(p float64) string { return fmt.Sprintf("$%.2f", p) }

// RenderList writes the products of p as a table followed by a page footer.
func RenderList(w io.Writer, p Page) error {
	if p.Total == 0 {
		_, err := fmt.Fprintln(w, "No products available.")
		return err
	}

	data := pterm.TableData{{"ID", "Title", "Category", "Price"}}
	for _, item := range p.Items {
		data = append(data, []string{
			strconv.Itoa(item.ID),
			truncate(item.Title, 48),
			item.Category,
			FormatPrice(item.Price),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	first := p.Page*p.PerPage + 1
	last := first + len(p.Items) - 1
	_, err = fmt.Fprintf(w, "%s\n%s\n", table,
		pterm.Gray(fmt.Sprintf("page %d of %d · %d-%d of %d · %d per page", p.Page+1, p.Pages, first, last, p.Total, p.PerPage)))
	return err
}

// RenderDetail writes a single product as a boxed panel.
func RenderDetail(w io.Writer, prod *api.Product) error {
	if prod == nil {
		_, err := fmt.Fprintln(w, "Product not found.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", pterm.Bold.Sprint(prod.Title))
	fmt.Fprintf(&b, "Price:     %s\n", pterm.Green(FormatPrice(prod.Price)))
	fmt.Fprintf(&b, "Category:  %s\n", prod.Category)
	if prod.Rating != nil {
		fmt.Fprintf(&b, "Rating:    %.1f (%d reviews)\n", prod.Rating.Rate, prod.Rating.Count)
	}
	if prod.Image != "" {
		fmt.Fprintf(&b, "Image:     %s\n", prod.Image)
	}
	if prod.Description != "" {
		fmt.Fprintf(&b, "\n%s", prod.Description)
	}

	box := pterm.DefaultBox.WithTitle(fmt.Sprintf("Product #%d", prod.ID)).Sprint(strings.TrimRight(b.String(), "\n"))
	_, err := fmt.Fprintln(w, box)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
