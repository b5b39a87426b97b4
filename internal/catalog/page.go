// Package catalog renders the product list and detail views and loads their
// data on behalf of a navigation.
package catalog

import "catalog/cli/internal/api"

// RowsPerPageOptions are the page sizes offered by the list view.
var RowsPerPageOptions = []int{5, 10, 25}

// DefaultPerPage is used when an unsupported page size is requested.
const DefaultPerPage = 10

// Page is one zero-based slice of the product list.
type Page struct {
	Items   []api.Product
	Page    int
	PerPage int
	Total   int
	Pages   int
}

// Paginate slices items client-side. Out-of-range pages clamp to the first or
// last page.
func Paginate(items []api.Product, page, perPage int) Page {
	if !validPerPage(perPage) {
		perPage = DefaultPerPage
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	start := page * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	var slice []api.Product
	if start < end {
		slice = items[start:end]
	}
	return Page{Items: slice, Page: page, PerPage: perPage, Total: total, Pages: pages}
}

func validPerPage(n int) bool {
	for _, o := range RowsPerPageOptions {
		if o == n {
			return true
		}
	}
	return false
}
