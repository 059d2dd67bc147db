// Package selection holds the per-product pending choice (variant and quantity) a
// shopper makes before committing it to the cart.
package selection

import (
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/shopspring/decimal"
)

// Record is the pending selection for one product.
type Record struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	VariantID    string          `json:"variant_id"`
	VariantTitle string          `json:"variant_title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	VariantImage string          `json:"variant_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (r Record) withQuantity(qty int) Record {
	r.Quantity = qty
	r.Price = r.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return r
}

func (r Record) withVariant(v catalog.Variant) Record {
	r.VariantID = v.ID
	r.VariantTitle = v.Title
	r.UnitPrice = v.Price
	r.VariantImage = v.Image
	return r.withQuantity(r.Quantity)
}

func newRecord(p catalog.Product, v catalog.Variant) Record {
	return Record{ProductID: gid.Normalize(p.ID), ProductName: p.Title}.withVariant(v).withQuantity(1)
}

// State is the ordered set of selection records of one session, at most one per product.
// Values are never mutated in place; Reduce returns a new State.
type State struct {
	records []Record
}

// Records returns a copy of the records in insertion order.
func (s State) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len reports the number of products with a pending selection.
func (s State) Len() int {
	return len(s.records)
}

// Find returns the record for productID, accepting raw or normalized ids.
func (s State) Find(productID string) (Record, bool) {
	id := gid.Normalize(productID)
	for _, r := range s.records {
		if r.ProductID == id {
			return r, true
		}
	}
	return Record{}, false
}

func (s State) index(productID string) int {
	for i, r := range s.records {
		if r.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s State) replaceAt(i int, r Record) State {
	records := s.Records()
	records[i] = r
	return State{records: records}
}

func (s State) appendRecord(r Record) State {
	records := append(s.Records(), r)
	return State{records: records}
}

func (s State) removeAt(i int) State {
	records := make([]Record, 0, len(s.records)-1)
	records = append(records, s.records[:i]...)
	records = append(records, s.records[i+1:]...)
	return State{records: records}
}
