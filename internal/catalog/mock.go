package catalog

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buyzaar/storefront/pkg/enums"
	"github.com/buyzaar/storefront/pkg/types"
)

var mockBrands = []string{"Stylewise", "Urban Threads", "Elegance", "Apex", "Zenith"}

var mockColors = []types.Color{
	{Name: "Black", Hex: "#000000"},
	{Name: "White", Hex: "#ffffff"},
	{Name: "Navy", Hex: "#000080"},
	{Name: "Red", Hex: "#ff0000"},
	{Name: "Green", Hex: "#008000"},
	{Name: "Blue", Hex: "#0000ff"},
}

var mockDetails = []string{
	"Premium quality material",
	"Comfortable fit",
	"Machine washable",
	"Imported",
}

var mockMaterials = []string{
	"95% Cotton",
	"5% Elastane",
}

const mockFitDescription = "This item fits true to size. We recommend ordering your normal size."

var oneHundred = decimal.NewFromInt(100)

// GenerateProducts builds a deterministic mock catalog of the given size.
// The same seed always yields the same catalog, which keeps derived views
// reproducible across restarts and tests.
func GenerateProducts(count int, seed int64) []Product {
	rng := rand.New(rand.NewSource(seed))
	categories := enums.ProductCategories()
	sizes := enums.ProductSizes()

	products := make([]Product, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("prod-%d", i+1)
		category := categories[rng.Intn(len(categories))]
		brand := mockBrands[rng.Intn(len(mockBrands))]
		singular := singularize(category)
		name := fmt.Sprintf("%s %s %d", brand, titleCase(singular), i+1)

		price := decimal.NewFromFloat(19.99 + rng.Float64()*80).Round(2)
		discount := 0
		if rng.Float64() > 0.7 {
			discount = rng.Intn(3) * 10
		}
		var originalPrice *decimal.Decimal
		if discount > 0 {
			factor := decimal.NewFromInt(int64(100 - discount)).Div(oneHundred)
			op := price.Div(factor).Round(2)
			originalPrice = &op
		}

		products = append(products, Product{
			ID:             id,
			Name:           name,
			Brand:          brand,
			Category:       category,
			Description:    fmt.Sprintf("This premium %s from %s offers both style and comfort. Perfect for any occasion.", singular, brand),
			Price:          price,
			OriginalPrice:  originalPrice,
			Discount:       discount,
			Rating:         clampRating(3 + rng.Float64()*2),
			Reviews:        generateReviews(rng, singular),
			Colors:         pickColors(rng),
			Sizes:          sizes,
			AvailableSizes: pickAvailableSizes(rng, sizes),
			Thumbnail:      fmt.Sprintf("/assets/products/%s/%d.jpg", category, rng.Intn(5)+1),
			Images:         generateImages(rng, category),
			Details:        mockDetails,
			Materials:      mockMaterials,
			Has3DModel:     rng.Float64() > 0.4,
			IsNew:          rng.Float64() > 0.8,
			IsFeatured:     rng.Float64() > 0.7,
			Stock:          rng.Intn(50) + 1,
			FitDescription: mockFitDescription,
		})
	}
	return products
}

func generateReviews(rng *rand.Rand, singular string) []Review {
	count := rng.Intn(20) + 5
	reviews := make([]Review, 0, count)
	for i := 0; i < count; i++ {
		reviews = append(reviews, Review{
			UserName: fmt.Sprintf("User%d", i+1),
			Rating:   rng.Intn(5) + 1,
			Comment:  fmt.Sprintf("Great %s! I'm very satisfied with the quality and fit.", singular),
			Date:     fmt.Sprintf("%d/%d/2024", rng.Intn(12)+1, rng.Intn(28)+1),
		})
	}
	return reviews
}

func pickColors(rng *rand.Rand) []types.Color {
	shuffled := make([]types.Color, len(mockColors))
	copy(shuffled, mockColors)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:rng.Intn(3)+2]
}

func pickAvailableSizes(rng *rand.Rand, sizes []enums.ProductSize) []enums.ProductSize {
	available := make([]enums.ProductSize, 0, len(sizes))
	for _, size := range sizes {
		if rng.Float64() > 0.2 {
			available = append(available, size)
		}
	}
	return available
}

func generateImages(rng *rand.Rand, category enums.ProductCategory) []string {
	images := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		images = append(images, fmt.Sprintf("/assets/products/%s/%d.jpg", category, rng.Intn(5)+1))
	}
	return images
}

func clampRating(rating float64) float64 {
	if rating > 5 {
		return 5
	}
	if rating < 3 {
		return 3
	}
	return rating
}

func singularize(category enums.ProductCategory) string {
	return strings.TrimSuffix(string(category), "s")
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
