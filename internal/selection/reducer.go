package selection

import (
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
)

// Action is a selection state transition.
type Action interface {
	Name() string
	apply(State) State
}

// SelectVariant records the chosen variant. A new record starts at quantity 1; an
// existing record keeps its quantity and is repriced. Unknown variants fall back to
// the product's first variant.
type SelectVariant struct {
	Product   catalog.Product
	VariantID string
}

// Increase adds one unit, creating the record with the first variant when absent.
type Increase struct {
	Product catalog.Product
}

// Decrease removes one unit. The record is dropped when it reaches zero.
type Decrease struct {
	ProductID string
}

// Refresh re-resolves an existing record against the current product, moving it to
// the first variant when its variant is gone. Quantity is kept and the price recomputed.
type Refresh struct {
	Product catalog.Product
}

func (SelectVariant) Name() string { return "select_variant" }
func (Increase) Name() string      { return "increase" }
func (Decrease) Name() string      { return "decrease" }
func (Refresh) Name() string       { return "refresh" }

// Reduce applies a to s and returns the resulting state. s is left untouched.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a SelectVariant) apply(s State) State {
	variant, ok := a.Product.ResolveVariant(a.VariantID)
	if !ok {
		return s
	}
	id := gid.Normalize(a.Product.ID)
	if i := s.index(id); i >= 0 {
		return s.replaceAt(i, s.records[i].withVariant(variant))
	}
	return s.appendRecord(newRecord(a.Product, variant))
}

func (a Increase) apply(s State) State {
	id := gid.Normalize(a.Product.ID)
	if i := s.index(id); i >= 0 {
		current := s.records[i]
		if variant, ok := a.Product.ResolveVariant(current.VariantID); ok {
			current = current.withVariant(variant)
		}
		return s.replaceAt(i, current.withQuantity(current.Quantity+1))
	}
	variant, ok := a.Product.DefaultVariant()
	if !ok {
		return s
	}
	return s.appendRecord(newRecord(a.Product, variant))
}

func (a Decrease) apply(s State) State {
	i := s.index(gid.Normalize(a.ProductID))
	if i < 0 {
		return s
	}
	current := s.records[i]
	if current.Quantity <= 1 {
		return s.removeAt(i)
	}
	return s.replaceAt(i, current.withQuantity(current.Quantity-1))
}

func (a Refresh) apply(s State) State {
	i := s.index(gid.Normalize(a.Product.ID))
	if i < 0 {
		return s
	}
	variant, ok := a.Product.ResolveVariant(s.records[i].VariantID)
	if !ok {
		return s
	}
	return s.replaceAt(i, s.records[i].withVariant(variant))
}
