package cart

import "github.com/angelmondragon/storefront-backend/pkg/gid"

// Action is a cart state transition.
type Action interface {
	Name() string
	apply(Cart) Cart
}

// Add merges a committed line. A new (product, variant) pair is appended; an
// existing one is overwritten, so quantities are not summed.
type Add struct {
	Item LineItem
}

// Increase adds one unit to the line holding VariantID.
type Increase struct {
	VariantID string
}

// Decrease removes one unit from the line holding VariantID, dropping the line at zero.
type Decrease struct {
	VariantID string
}

// Remove deletes the line holding VariantID.
type Remove struct {
	VariantID string
}

func (Add) Name() string      { return "add" }
func (Increase) Name() string { return "increase" }
func (Decrease) Name() string { return "decrease" }
func (Remove) Name() string   { return "remove" }

// Reduce applies a to c and returns the resulting cart. Actions naming a variant
// that is not in the cart leave it unchanged.
func Reduce(c Cart, a Action) Cart {
	if a == nil {
		return c
	}
	return a.apply(c)
}

func (a Add) apply(c Cart) Cart {
	item := a.Item
	item.ProductID = gid.Normalize(item.ProductID)
	item.VariantID = gid.Normalize(item.VariantID)
	if item.Quantity < 1 || item.VariantID == "" {
		return c
	}
	item = item.withQuantity(item.Quantity)
	if i := c.keyIndex(item); i >= 0 {
		return c.replaceAt(i, item)
	}
	items := append(c.Items(), item)
	return Cart{items: items}
}

func (a Increase) apply(c Cart) Cart {
	i := c.variantIndex(gid.Normalize(a.VariantID))
	if i < 0 {
		return c
	}
	line := c.items[i]
	return c.replaceAt(i, line.withQuantity(line.Quantity+1))
}

func (a Decrease) apply(c Cart) Cart {
	i := c.variantIndex(gid.Normalize(a.VariantID))
	if i < 0 {
		return c
	}
	line := c.items[i]
	if line.Quantity <= 1 {
		return c.removeAt(i)
	}
	return c.replaceAt(i, line.withQuantity(line.Quantity-1))
}

func (a Remove) apply(c Cart) Cart {
	i := c.variantIndex(gid.Normalize(a.VariantID))
	if i < 0 {
		return c
	}
	return c.removeAt(i)
}
