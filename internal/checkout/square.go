package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/square"
)

type squareLinks interface {
	NewIdempotencyKey(prefix string) string
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkParams) (*square.PaymentLink, error)
}

// SquareGateway hands carts to a Square hosted payment link. The session is a
// local idempotency key, so CreateSession never leaves the process.
type SquareGateway struct {
	client   squareLinks
	currency string
}

func NewSquareGateway(client squareLinks, currency string) (*SquareGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("square client required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("square currency required")
	}
	return &SquareGateway{client: client, currency: currency}, nil
}

func (g *SquareGateway) Name() string { return config.CheckoutProviderSquare }

func (g *SquareGateway) CreateSession(context.Context) (Session, error) {
	return Session{ID: g.client.NewIdempotencyKey("checkout")}, nil
}

// AddLineItems creates the payment link. Prices are sent in minor units.
func (g *SquareGateway) AddLineItems(ctx context.Context, sessionID string, lines []Line) (string, error) {
	items := make([]square.LineItem, 0, len(lines))
	for _, l := range lines {
		name := l.Title
		if name == "" {
			name = l.VariantID
		}
		items = append(items, square.LineItem{
			Name:        name,
			Quantity:    l.Quantity,
			AmountMinor: l.UnitPrice.Shift(2).Round(0).IntPart(),
			Currency:    g.currency,
			ReferenceID: l.VariantID,
		})
	}
	link, err := g.client.CreatePaymentLink(ctx, square.PaymentLinkParams{
		IdempotencyKey: sessionID,
		Lines:          items,
	})
	if err != nil {
		return "", err
	}
	return link.URL, nil
}
