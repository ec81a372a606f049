package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Filter narrows the snapshot to products matching the search term and the
// optionally selected category. A category stays visible only while at
// least one of its products matches; an empty search keeps everything.
// Categories come back in stable ascending sort_order; the flat product
// list keeps the per-category ordering of the input.
func Filter(categories []CategoryDTO, search string, selectedCategoryID *uuid.UUID) ([]CategoryDTO, []ProductDTO) {
	needle := strings.ToLower(strings.TrimSpace(search))

	shown := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		if selectedCategoryID != nil && category.ID != *selectedCategoryID {
			continue
		}
		matched := category.Products
		if needle != "" {
			matched = make([]ProductDTO, 0, len(category.Products))
			for _, product := range category.Products {
				if strings.Contains(strings.ToLower(product.Name), needle) {
					matched = append(matched, product)
				}
			}
		}
		if len(matched) == 0 {
			continue
		}
		category.Products = matched
		shown = append(shown, category)
	}

	sort.SliceStable(shown, func(i, j int) bool {
		return shown[i].SortOrder < shown[j].SortOrder
	})

	products := make([]ProductDTO, 0)
	for _, category := range shown {
		products = append(products, category.Products...)
	}
	return shown, products
}
