package checkout

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is one cart line handed to a hosted checkout.
type Line struct {
	ProductID string
	VariantID string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Session is an in-progress checkout on the external platform.
type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted checkouts. CreateSession and AddLineItems are two separate
// round trips; callers must not retry either step.
type Gateway interface {
	Name() string
	CreateSession(ctx context.Context) (Session, error)
	AddLineItems(ctx context.Context, sessionID string, lines []Line) (string, error)
}
