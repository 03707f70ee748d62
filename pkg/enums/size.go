package enums

import "fmt"

// ProductSize defines the size ladder used across the catalog.
type ProductSize string

const (
	ProductSizeXS  ProductSize = "XS"
	ProductSizeS   ProductSize = "S"
	ProductSizeM   ProductSize = "M"
	ProductSizeL   ProductSize = "L"
	ProductSizeXL  ProductSize = "XL"
	ProductSizeXXL ProductSize = "XXL"
)

var validProductSizes = []ProductSize{
	ProductSizeXS,
	ProductSizeS,
	ProductSizeM,
	ProductSizeL,
	ProductSizeXL,
	ProductSizeXXL,
}

// ProductSizes returns the size ladder smallest-first.
func ProductSizes() []ProductSize {
	out := make([]ProductSize, len(validProductSizes))
	copy(out, validProductSizes)
	return out
}

// String implements fmt.Stringer.
func (s ProductSize) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known ProductSize.
func (s ProductSize) IsValid() bool {
	for _, candidate := range validProductSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSize converts raw input into a ProductSize.
func ParseProductSize(value string) (ProductSize, error) {
	for _, candidate := range validProductSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product size %q", value)
}
