package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "SKU", 3},
		{"Email", "Email", 0},
		{"Email", "Emails", 1},
		{"FulName", "FullName", 1},
		{"Adress", "Address", 1},
		{"IsActive", "Active", 2},
		{"Quantity", "Quantiy", 1},
		{"CustomerID", "customerID", 1},
		{"OrderedAt", "ShippedAt", 5},
		{"PriceCents", "TotalCents", 5},
		{"Größe", "Grösse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, EditDistance(tt.a, tt.b))
			assert.Equal(t, tt.expected, EditDistance(tt.b, tt.a), "distance is symmetric")
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("Notes", "Notes"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("SKU", "Tag"), 1e-9)
	assert.InDelta(t, 1-1.0/8, Similarity("FulName", "FullName"), 1e-9)
	assert.InDelta(t, 1-2.0/8, Similarity("IsActive", "Active"), 1e-9)
}

func TestNameSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"CustomerID", "customer_id", 1, 1},
		{"ProductID", "productId", 1, 1},
		{"UnitPrice", "unit_price", 1, 1},
		{"TotalCent", "TotalCents", 0.8, 1},
		{"CreatedAt", "OrderedAt", 0.5, 0.8},
		{"Email", "Inventory", 0, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			t.Parallel()

			score := NameSimilarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}

func BenchmarkNameSimilarity(b *testing.B) {
	for b.Loop() {
		NameSimilarity("CustomerOrderID", "customer_order_id")
	}
}
