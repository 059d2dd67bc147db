package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/angelmondragon/storefront-backend/pkg/shopify"
	"github.com/shopspring/decimal"
)

// fromShopifyProduct maps a Storefront product. Variants with unparsable prices are
// skipped; the returned error is non-nil when nothing purchasable remains.
func fromShopifyProduct(src shopify.Product) (Product, error) {
	product := Product{
		ID:          gid.Normalize(src.ID),
		GID:         src.ID,
		Title:       src.Title,
		Description: src.Description,
		Images:      make([]Image, 0, len(src.Images.Nodes)),
		Variants:    make([]Variant, 0, len(src.Variants.Nodes)),
	}
	for _, img := range src.Images.Nodes {
		product.Images = append(product.Images, Image{ID: gid.Normalize(img.ID), URL: img.URL, AltText: img.AltText})
	}

	var skipped []string
	for _, v := range src.Variants.Nodes {
		price, err := decimal.NewFromString(strings.TrimSpace(v.Price.Amount))
		if err != nil {
			skipped = append(skipped, v.ID)
			continue
		}
		variant := Variant{
			ID:           gid.Normalize(v.ID),
			GID:          v.ID,
			Title:        v.Title,
			Price:        price,
			CurrencyCode: v.Price.CurrencyCode,
		}
		switch {
		case v.Image != nil && v.Image.URL != "":
			variant.Image = v.Image.URL
		case len(product.Images) > 0:
			variant.Image = product.Images[0].URL
		}
		product.Variants = append(product.Variants, variant)
	}

	if len(product.Variants) == 0 {
		if len(skipped) > 0 {
			return product, fmt.Errorf("product %s has no variant with a valid price (skipped %s)", product.ID, strings.Join(skipped, ","))
		}
		return product, fmt.Errorf("product %s has no variants", product.ID)
	}
	return product, nil
}

func fromShopifyCollection(src shopify.Collection) (Collection, []error) {
	collection := Collection{
		ID:       gid.Normalize(src.ID),
		GID:      src.ID,
		Title:    src.Title,
		Handle:   src.Handle,
		Products: make([]Product, 0, len(src.Products.Nodes)),
	}
	var errs []error
	for _, p := range src.Products.Nodes {
		product, err := fromShopifyProduct(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		collection.Products = append(collection.Products, product)
	}
	return collection, errs
}
