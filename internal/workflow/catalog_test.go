package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	require.Equal(t, 8, catalog.Len())

	seen := make(map[string]bool)
	for _, p := range catalog.Products() {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Category)
		assert.Positive(t, p.PriceCents)
		assert.GreaterOrEqual(t, p.Stock, 0)
		assert.False(t, seen[p.ID], "duplicate product id %s", p.ID)
		seen[p.ID] = true
	}

	keyboard, ok := catalog.Get("prod_keyboard")
	require.True(t, ok)
	assert.Equal(t, "Mechanical Keyboard", keyboard.Name)

	_, ok = catalog.Get("prod_nonexistent")
	assert.False(t, ok)
}

func TestParseCatalogRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "products: [unclosed"},
		{"no products", "products: []"},
		{"missing id", "products:\n  - name: Thing\n    price_cents: 100"},
		{"duplicate id", "products:\n  - id: p1\n    name: A\n  - id: p1\n    name: B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCatalogProductsReturnsCopy(t *testing.T) {
	catalog, err := LoadCatalog()
	require.NoError(t, err)

	products := catalog.Products()
	products[0].Name = "Tampered"

	fresh, ok := catalog.Get(products[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "Tampered", fresh.Name)
}
