package shopify

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const productFields = `
fragment ProductFields on Product {
  id
  title
  description
  images(first: 20) { nodes { id url altText } }
  variants(first: 100) {
    nodes { id title price { amount currencyCode } image { id url altText } }
  }
}`

const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    nodes { ...ProductFields }
    pageInfo { hasNextPage endCursor }
  }
}` + productFields

const productQuery = `
query Product($id: ID!) {
  product(id: $id) { ...ProductFields }
}` + productFields

const collectionsQuery = `
query Collections($first: Int!, $after: String, $productsFirst: Int!) {
  collections(first: $first, after: $after) {
    nodes {
      id
      title
      handle
      products(first: $productsFirst) { nodes { ...ProductFields } }
    }
    pageInfo { hasNextPage endCursor }
  }
}` + productFields

// maxPages bounds cursor walks so a misbehaving API cannot loop forever.
const maxPages = 50

// Products walks every page of the products connection.
func (c *Client) Products(ctx context.Context, pageSize int) ([]Product, error) {
	pageSize = clampPageSize(pageSize)
	var (
		out   []Product
		after *string
	)
	for page := 0; page < maxPages; page++ {
		var data struct {
			Products struct {
				Nodes    []Product `json:"nodes"`
				PageInfo pageInfo  `json:"pageInfo"`
			} `json:"products"`
		}
		vars := map[string]any{"first": pageSize, "after": after}
		if err := c.do(ctx, "products", productsQuery, vars, &data); err != nil {
			return nil, err
		}
		out = append(out, data.Products.Nodes...)
		if !data.Products.PageInfo.HasNextPage || data.Products.PageInfo.EndCursor == "" {
			break
		}
		cursor := data.Products.PageInfo.EndCursor
		after = &cursor
	}
	return out, nil
}

// Product fetches one product by global id.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var data struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, "product", productQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return data.Product, nil
}

// Collections walks every collection, each with up to productsPerCollection products.
func (c *Client) Collections(ctx context.Context, pageSize, productsPerCollection int) ([]Collection, error) {
	pageSize = clampPageSize(pageSize)
	productsPerCollection = clampPageSize(productsPerCollection)
	var (
		out   []Collection
		after *string
	)
	for page := 0; page < maxPages; page++ {
		var data struct {
			Collections struct {
				Nodes    []Collection `json:"nodes"`
				PageInfo pageInfo     `json:"pageInfo"`
			} `json:"collections"`
		}
		vars := map[string]any{"first": pageSize, "after": after, "productsFirst": productsPerCollection}
		if err := c.do(ctx, "collections", collectionsQuery, vars, &data); err != nil {
			return nil, err
		}
		out = append(out, data.Collections.Nodes...)
		if !data.Collections.PageInfo.HasNextPage || data.Collections.PageInfo.EndCursor == "" {
			break
		}
		cursor := data.Collections.PageInfo.EndCursor
		after = &cursor
	}
	return out, nil
}

// Storefront caps connection page size at 250.
func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return 50
	case n > 250:
		return 250
	default:
		return n
	}
}
