package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/pkg/enums"
	"github.com/buyzaar/storefront/pkg/types"
)

// Review is a single customer review attached to a product.
type Review struct {
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

// Product is one catalog record. Products are created once by the generator
// (or a catalog fetch) and treated as immutable for the session.
type Product struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Brand          string                `json:"brand"`
	Category       enums.ProductCategory `json:"category"`
	Description    string                `json:"description"`
	Price          decimal.Decimal       `json:"price"`
	OriginalPrice  *decimal.Decimal      `json:"originalPrice,omitempty"`
	Discount       int                   `json:"discount"`
	Rating         float64               `json:"rating"`
	Reviews        []Review              `json:"reviews"`
	Colors         []types.Color         `json:"colors"`
	Sizes          []enums.ProductSize   `json:"sizes"`
	AvailableSizes []enums.ProductSize   `json:"availableSizes"`
	Thumbnail      string                `json:"thumbnail"`
	Images         []string              `json:"images"`
	Details        []string              `json:"details"`
	Materials      []string              `json:"materials"`
	Has3DModel     bool                  `json:"has3dModel"`
	IsNew          bool                  `json:"isNew"`
	IsFeatured     bool                  `json:"isFeatured"`
	Stock          int                   `json:"stock"`
	FitDescription string                `json:"fitDescription"`
}

// Sequence extracts the monotonically increasing numeric suffix of the
// product ID (prod-N). Newest-first ordering sorts on it descending.
// Malformed IDs sort oldest.
func (p Product) Sequence() int {
	idx := strings.LastIndex(p.ID, "-")
	if idx < 0 || idx+1 >= len(p.ID) {
		return 0
	}
	n, err := strconv.Atoi(p.ID[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// HasColor reports whether any variant carries the given color name.
func (p Product) HasColor(name string) bool {
	for _, color := range p.Colors {
		if color.Name == name {
			return true
		}
	}
	return false
}

// HasAvailableSize reports whether the size is currently in stock.
func (p Product) HasAvailableSize(size enums.ProductSize) bool {
	for _, candidate := range p.AvailableSizes {
		if candidate == size {
			return true
		}
	}
	return false
}
