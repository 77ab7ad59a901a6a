package workflow

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Product is one sellable item in the demo catalog.
type Product struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Category   string `yaml:"category" json:"category"`
	PriceCents int64  `yaml:"price_cents" json:"price_cents"`
	Stock      int    `yaml:"stock" json:"stock"`
}

// Catalog is the read-only product list backing the storefront flows.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// LoadCatalog parses the embedded demo catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog builds a catalog from YAML. Products keep document order;
// ids must be present and unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	c := &Catalog{
		products: doc.Products,
		byID:     make(map[string]Product, len(doc.Products)),
	}
	for _, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog product %q missing id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = p
	}
	return c, nil
}

// Products returns the catalog in document order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks up a product by id.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
