package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/pkg/enums"
)

// Repository holds the immutable catalog snapshot and exposes read-only
// lookups over it. It never mutates its products after construction; every
// accessor returns fresh slices so callers cannot reach into the snapshot.
type Repository struct {
	products []Product
	byID     map[string]int
}

// NewRepository builds a repository over the given snapshot.
func NewRepository(products []Product) *Repository {
	indexed := make(map[string]int, len(products))
	for i, product := range products {
		indexed[product.ID] = i
	}
	return &Repository{products: products, byID: indexed}
}

// Products returns the full snapshot in catalog order.
func (r *Repository) Products() []Product {
	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out
}

// Len reports the snapshot size.
func (r *Repository) Len() int {
	return len(r.products)
}

// ByID looks a product up by its identifier.
func (r *Repository) ByID(id string) (Product, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Product{}, false
	}
	return r.products[idx], true
}

// ByCategory returns products in the category, in catalog order. The "all"
// wildcard (or an empty string) returns the whole snapshot.
func (r *Repository) ByCategory(category string) []Product {
	if category == "" || category == enums.CategoryAll {
		return r.Products()
	}
	matches := make([]Product, 0)
	for _, product := range r.products {
		if string(product.Category) == category {
			matches = append(matches, product)
		}
	}
	return matches
}

// Search performs case-insensitive substring matching across name,
// description, brand and category. Matches come back in catalog order; there
// is no relevance ranking.
func (r *Repository) Search(text string) []Product {
	term := strings.ToLower(text)
	matches := make([]Product, 0)
	for _, product := range r.products {
		if strings.Contains(strings.ToLower(product.Name), term) ||
			strings.Contains(strings.ToLower(product.Description), term) ||
			strings.Contains(strings.ToLower(product.Brand), term) ||
			strings.Contains(strings.ToLower(string(product.Category)), term) {
			matches = append(matches, product)
		}
	}
	return matches
}

// Featured returns the top-limit products by rating, descending.
func (r *Repository) Featured(limit int) []Product {
	ranked := r.Products()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})
	if limit >= 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// Similar returns up to limit products sharing the category, excluding the
// given id, in catalog order.
func (r *Repository) Similar(category enums.ProductCategory, excludeID string, limit int) []Product {
	matches := make([]Product, 0, limit)
	for _, product := range r.products {
		if product.Category != category || product.ID == excludeID {
			continue
		}
		matches = append(matches, product)
		if limit >= 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

// Categories returns the distinct categories present, in first-seen order.
func (r *Repository) Categories() []enums.ProductCategory {
	seen := make(map[enums.ProductCategory]struct{})
	categories := make([]enums.ProductCategory, 0)
	for _, product := range r.products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	return categories
}

// FilterOptions summarizes the filterable dimensions of the snapshot, used
// to seed a fresh FilterState.
type FilterOptions struct {
	Brands   []string            `json:"brands"`
	Colors   []string            `json:"colors"`
	Sizes    []enums.ProductSize `json:"sizes"`
	MinPrice decimal.Decimal     `json:"minPrice"`
	MaxPrice decimal.Decimal     `json:"maxPrice"`
}

// FilterOptions extracts the distinct brands, color names, sizes and the
// price bounds of the snapshot.
func (r *Repository) FilterOptions() FilterOptions {
	brandSeen := map[string]struct{}{}
	colorSeen := map[string]struct{}{}
	sizeSeen := map[enums.ProductSize]struct{}{}
	options := FilterOptions{}

	for i, product := range r.products {
		if _, ok := brandSeen[product.Brand]; !ok {
			brandSeen[product.Brand] = struct{}{}
			options.Brands = append(options.Brands, product.Brand)
		}
		for _, color := range product.Colors {
			if _, ok := colorSeen[color.Name]; !ok {
				colorSeen[color.Name] = struct{}{}
				options.Colors = append(options.Colors, color.Name)
			}
		}
		for _, size := range product.Sizes {
			if _, ok := sizeSeen[size]; !ok {
				sizeSeen[size] = struct{}{}
				options.Sizes = append(options.Sizes, size)
			}
		}
		if i == 0 {
			options.MinPrice = product.Price
			options.MaxPrice = product.Price
			continue
		}
		if product.Price.LessThan(options.MinPrice) {
			options.MinPrice = product.Price
		}
		if product.Price.GreaterThan(options.MaxPrice) {
			options.MaxPrice = product.Price
		}
	}

	sort.Strings(options.Brands)
	sort.Strings(options.Colors)
	return options
}
