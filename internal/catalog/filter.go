package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/pkg/enums"
)

// FilterState describes the filter knobs applied to a catalog view. Empty
// sets pass everything; nil price bounds are unbounded. It is transient query
// state and never persisted.
type FilterState struct {
	Brands   []string            `json:"brands,omitempty"`
	Colors   []string            `json:"colors,omitempty"`
	Sizes    []enums.ProductSize `json:"sizes,omitempty"`
	PriceMin *decimal.Decimal    `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal    `json:"price_max,omitempty"`
	Sort     enums.SortKey       `json:"sort,omitempty"`
}

// ApplyFilters runs the full pipeline: brand, color, size, price range
// (inclusive both ends), then exactly one stable sort. The input slice is
// never mutated; ties keep the prior stage's order.
func ApplyFilters(products []Product, state FilterState) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		if !matchBrand(product, state.Brands) {
			continue
		}
		if !matchColor(product, state.Colors) {
			continue
		}
		if !matchSize(product, state.Sizes) {
			continue
		}
		if !matchPrice(product, state.PriceMin, state.PriceMax) {
			continue
		}
		result = append(result, product)
	}

	sortProducts(result, state.Sort)
	return result
}

func matchBrand(product Product, brands []string) bool {
	if len(brands) == 0 {
		return true
	}
	for _, brand := range brands {
		if product.Brand == brand {
			return true
		}
	}
	return false
}

func matchColor(product Product, colors []string) bool {
	if len(colors) == 0 {
		return true
	}
	for _, color := range colors {
		if product.HasColor(color) {
			return true
		}
	}
	return false
}

func matchSize(product Product, sizes []enums.ProductSize) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, size := range sizes {
		if product.HasAvailableSize(size) {
			return true
		}
	}
	return false
}

func matchPrice(product Product, min, max *decimal.Decimal) bool {
	if min != nil && product.Price.LessThan(*min) {
		return false
	}
	if max != nil && product.Price.GreaterThan(*max) {
		return false
	}
	return true
}

func sortProducts(products []Product, key enums.SortKey) {
	switch key {
	case enums.SortKeyPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case enums.SortKeyPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case enums.SortKeyPopularity:
		sort.SliceStable(products, func(i, j int) bool {
			return len(products[i].Reviews) > len(products[j].Reviews)
		})
	case enums.SortKeyRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default: // newest-first
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Sequence() > products[j].Sequence()
		})
	}
}
