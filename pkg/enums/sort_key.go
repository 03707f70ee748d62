package enums

import "fmt"

// SortKey selects the ordering applied after catalog filtering.
type SortKey string

const (
	SortKeyNewest       SortKey = "newest"
	SortKeyPriceLowHigh SortKey = "price-low-high"
	SortKeyPriceHighLow SortKey = "price-high-low"
	SortKeyPopularity   SortKey = "popularity"
	SortKeyRating       SortKey = "rating"
)

var validSortKeys = []SortKey{
	SortKeyNewest,
	SortKeyPriceLowHigh,
	SortKeyPriceHighLow,
	SortKeyPopularity,
	SortKeyRating,
}

// SortKeys returns the supported sort orderings.
func SortKeys() []SortKey {
	out := make([]SortKey, len(validSortKeys))
	copy(out, validSortKeys)
	return out
}

// String implements fmt.Stringer.
func (k SortKey) String() string {
	return string(k)
}

// IsValid reports whether the value matches a known SortKey.
func (k SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey. Empty input falls back to
// newest-first, the catalog default.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortKeyNewest, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
