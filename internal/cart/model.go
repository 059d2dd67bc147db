package cart

import (
	"github.com/angelmondragon/storefront-backend/internal/selection"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/shopspring/decimal"
)

// LineItem is one cart row, keyed by (ProductID, VariantID).
type LineItem struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id"`
	Name         string          `json:"name"`
	VariantName  string          `json:"variant_name"`
	VariantPrice decimal.Decimal `json:"variant_price"`
	VariantImage string          `json:"variant_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (l LineItem) withQuantity(qty int) LineItem {
	l.Quantity = qty
	l.Price = l.VariantPrice.Mul(decimal.NewFromInt(int64(qty)))
	return l
}

func (l LineItem) sameKey(other LineItem) bool {
	return l.ProductID == other.ProductID && l.VariantID == other.VariantID
}

// Commit converts a pending selection into a cart line.
func Commit(rec selection.Record) LineItem {
	return LineItem{
		ProductID:    gid.Normalize(rec.ProductID),
		VariantID:    gid.Normalize(rec.VariantID),
		Name:         rec.ProductName,
		VariantName:  rec.VariantTitle,
		VariantPrice: rec.UnitPrice,
		VariantImage: rec.VariantImage,
	}.withQuantity(rec.Quantity)
}

// Cart is an ordered list of line items. Values are never mutated in place.
type Cart struct {
	items []LineItem
}

// New builds a cart from items, keeping the invariants: no duplicate keys (the
// later row wins), no line below quantity 1, line totals recomputed.
func New(items []LineItem) Cart {
	var c Cart
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		c = Reduce(c, Add{Item: item})
	}
	return c
}

// Items returns a copy of the lines in insertion order.
func (c Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalQuantity is the sum of line quantities.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of line totals.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price)
	}
	return total
}

// FindVariant returns the first line holding variantID.
func (c Cart) FindVariant(variantID string) (LineItem, bool) {
	if i := c.variantIndex(gid.Normalize(variantID)); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

func (c Cart) variantIndex(variantID string) int {
	for i, item := range c.items {
		if item.VariantID == variantID {
			return i
		}
	}
	return -1
}

func (c Cart) keyIndex(l LineItem) int {
	for i, item := range c.items {
		if item.sameKey(l) {
			return i
		}
	}
	return -1
}

func (c Cart) replaceAt(i int, l LineItem) Cart {
	items := c.Items()
	items[i] = l
	return Cart{items: items}
}

func (c Cart) removeAt(i int) Cart {
	items := make([]LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Cart{items: items}
}
