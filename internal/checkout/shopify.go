package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/angelmondragon/storefront-backend/pkg/shopify"
)

type shopifyCheckouts interface {
	CreateCheckout(ctx context.Context) (*shopify.Checkout, error)
	AddCheckoutLineItems(ctx context.Context, checkoutID string, lines []shopify.LineItemInput) (*shopify.Checkout, error)
}

// ShopifyGateway hands carts to the Storefront checkout.
type ShopifyGateway struct {
	client shopifyCheckouts
}

func NewShopifyGateway(client shopifyCheckouts) (*ShopifyGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("shopify client required")
	}
	return &ShopifyGateway{client: client}, nil
}

func (g *ShopifyGateway) Name() string { return config.CheckoutProviderShopify }

func (g *ShopifyGateway) CreateSession(ctx context.Context) (Session, error) {
	created, err := g.client.CreateCheckout(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: created.ID, URL: created.WebURL}, nil
}

// AddLineItems submits variant ids in global id form and returns the checkout web URL.
func (g *ShopifyGateway) AddLineItems(ctx context.Context, sessionID string, lines []Line) (string, error) {
	inputs := make([]shopify.LineItemInput, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, shopify.LineItemInput{
			VariantID: gid.Format(gid.KindProductVariant, l.VariantID),
			Quantity:  l.Quantity,
		})
	}
	updated, err := g.client.AddCheckoutLineItems(ctx, sessionID, inputs)
	if err != nil {
		return "", err
	}
	if updated.WebURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "shopify checkout has no web url")
	}
	return updated.WebURL, nil
}
