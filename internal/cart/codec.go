package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// SchemaVersion is written into every persisted cart. Version 0 is the legacy
// bare JSON array of items.
const SchemaVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported cart schema version")
	ErrMalformed          = errors.New("malformed cart payload")
)

type storedItem struct {
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId"`
	Name         string          `json:"name"`
	VariantName  string          `json:"variantName"`
	VariantPrice decimal.Decimal `json:"variantPrice"`
	VariantImage string          `json:"variantImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type envelope struct {
	Version int          `json:"version"`
	Items   []storedItem `json:"items"`
}

// Encode serializes c in the current schema.
func Encode(c Cart) ([]byte, error) {
	items := make([]storedItem, 0, c.Len())
	for _, item := range c.items {
		items = append(items, storedItem(item))
	}
	return json.Marshal(envelope{Version: SchemaVersion, Items: items})
}

// Decode parses a persisted cart. It always returns a usable cart: missing or
// malformed content yields an empty cart, and rows that break the cart
// invariants are dropped. The error describes what was discarded.
func Decode(raw []byte) (Cart, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Cart{}, nil
	}

	var rows []storedItem
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if env.Version > SchemaVersion || env.Version < 0 {
			return Cart{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
		}
		rows = env.Items
	default:
		return Cart{}, fmt.Errorf("%w: unexpected leading byte %q", ErrMalformed, trimmed[0])
	}

	return sanitize(rows)
}

func sanitize(rows []storedItem) (Cart, error) {
	var (
		c    Cart
		errs error
	)
	for i, row := range rows {
		item := LineItem(row)
		item.ProductID = gid.Normalize(item.ProductID)
		item.VariantID = gid.Normalize(item.VariantID)
		switch {
		case item.VariantID == "":
			errs = multierr.Append(errs, fmt.Errorf("row %d: missing variant id", i))
			continue
		case item.Quantity < 1:
			errs = multierr.Append(errs, fmt.Errorf("row %d: quantity %d below 1", i, item.Quantity))
			continue
		case item.VariantPrice.IsNegative():
			errs = multierr.Append(errs, fmt.Errorf("row %d: negative unit price", i))
			continue
		}
		if c.keyIndex(item) >= 0 {
			errs = multierr.Append(errs, fmt.Errorf("row %d: duplicate line for variant %s", i, item.VariantID))
		}
		c = Reduce(c, Add{Item: item})
	}
	return c, errs
}
