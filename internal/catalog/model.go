package catalog

import (
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/shopspring/decimal"
)

// Image is a product image reference.
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Variant is one purchasable option of a product.
type Variant struct {
	ID           string          `json:"id"`
	GID          string          `json:"gid"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currency_code"`
	Image        string          `json:"image,omitempty"`
}

// Product always carries at least one variant.
type Product struct {
	ID          string    `json:"id"`
	GID         string    `json:"gid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
}

type Collection struct {
	ID       string    `json:"id"`
	GID      string    `json:"gid"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Products []Product `json:"products"`
}

// Home is the landing page payload.
type Home struct {
	Products    []Product    `json:"products"`
	Collections []Collection `json:"collections"`
}

// FindVariant looks up a variant by raw or normalized id.
func (p Product) FindVariant(id string) (Variant, bool) {
	id = gid.Normalize(id)
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// DefaultVariant returns the first variant. ok is false for a product without variants.
func (p Product) DefaultVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// ResolveVariant returns the variant matching id, falling back to the first variant.
func (p Product) ResolveVariant(id string) (Variant, bool) {
	if v, ok := p.FindVariant(id); ok {
		return v, true
	}
	return p.DefaultVariant()
}
