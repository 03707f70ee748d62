package catalog

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGenerateProductsIsDeterministic(t *testing.T) {
	t.Parallel()

	first := GenerateProducts(25, 42)
	second := GenerateProducts(25, 42)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed must yield the same catalog")
	}
}

func TestGenerateProductsInvariants(t *testing.T) {
	t.Parallel()

	products := GenerateProducts(100, 7)
	if len(products) != 100 {
		t.Fatalf("expected 100 products, got %d", len(products))
	}

	oneHundred := decimal.NewFromInt(100)
	for i, p := range products {
		if p.ID != fmt.Sprintf("prod-%d", i+1) {
			t.Fatalf("expected sequential ids, got %q at %d", p.ID, i)
		}
		if p.Sequence() != i+1 {
			t.Fatalf("sequence mismatch for %s", p.ID)
		}
		if p.Price.IsNegative() {
			t.Fatalf("%s: negative price %s", p.ID, p.Price)
		}
		if !p.Category.IsValid() {
			t.Fatalf("%s: invalid category %q", p.ID, p.Category)
		}
		if p.Rating < 0 || p.Rating > 5 {
			t.Fatalf("%s: rating out of range: %f", p.ID, p.Rating)
		}
		if len(p.Reviews) < 5 || len(p.Reviews) > 24 {
			t.Fatalf("%s: unexpected review count %d", p.ID, len(p.Reviews))
		}
		for _, review := range p.Reviews {
			if review.Rating < 1 || review.Rating > 5 {
				t.Fatalf("%s: review rating out of range: %d", p.ID, review.Rating)
			}
		}
		if len(p.Colors) < 2 || len(p.Colors) > 4 {
			t.Fatalf("%s: unexpected color count %d", p.ID, len(p.Colors))
		}
		if p.Stock < 1 || p.Stock > 50 {
			t.Fatalf("%s: stock out of range: %d", p.ID, p.Stock)
		}

		switch {
		case p.Discount > 0:
			if p.OriginalPrice == nil {
				t.Fatalf("%s: discounted product missing original price", p.ID)
			}
			if !p.OriginalPrice.GreaterThan(p.Price) {
				t.Fatalf("%s: original price %s not above price %s", p.ID, p.OriginalPrice, p.Price)
			}
			factor := decimal.NewFromInt(int64(100 - p.Discount)).Div(oneHundred)
			want := p.Price.Div(factor).Round(2)
			if !p.OriginalPrice.Equal(want) {
				t.Fatalf("%s: original price %s, want %s", p.ID, p.OriginalPrice, want)
			}
		default:
			if p.OriginalPrice != nil {
				t.Fatalf("%s: undiscounted product has original price", p.ID)
			}
		}
	}
}

func TestGenerateProductsCoversDiscounts(t *testing.T) {
	t.Parallel()

	products := GenerateProducts(200, 99)
	discounted := 0
	for _, p := range products {
		if p.Discount > 0 {
			discounted++
		}
	}
	if discounted == 0 {
		t.Fatal("expected at least one discounted product in a 200-item catalog")
	}
}
