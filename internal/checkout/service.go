package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
}

type checkoutRecorder interface {
	Checkout(provider string, duration time.Duration, err error)
}

// Result is the hosted checkout the shopper is sent to.
type Result struct {
	Provider    string `json:"provider"`
	CheckoutID  string `json:"checkout_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Service hands a shopper cart to the configured gateway.
type Service interface {
	Start(ctx context.Context, sessionID string) (*Result, error)
}

type service struct {
	carts   cartReader
	gateway Gateway
	metrics checkoutRecorder
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the checkout service. recorder may be nil.
func NewService(carts cartReader, gateway Gateway, recorder checkoutRecorder, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("checkout gateway required")
	}
	if recorder == nil {
		recorder = (*metrics.Storefront)(nil)
	}
	return &service{carts: carts, gateway: gateway, metrics: recorder, logg: logg, now: time.Now}, nil
}

// Start never modifies the cart. Each gateway step is attempted once; a failure
// is returned as a dependency error and no URL is produced.
func (s *service) Start(ctx context.Context, sessionID string) (result *Result, err error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines := linesFor(c)
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}

	provider := s.gateway.Name()
	ctx = s.logg.WithFields(ctx, map[string]any{"provider": provider, "lines": len(lines)})
	started := s.now()
	defer func() { s.metrics.Checkout(provider, s.now().Sub(started), err) }()

	session, err := s.gateway.CreateSession(ctx)
	if err != nil {
		s.logg.Error(ctx, "checkout.create_session_failed", err)
		return nil, asDependency(err, "create checkout session")
	}

	url, err := s.gateway.AddLineItems(ctx, session.ID, lines)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "checkout_id", session.ID), "checkout.add_line_items_failed", err)
		return nil, asDependency(err, "add checkout line items")
	}
	if strings.TrimSpace(url) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout returned no url")
	}

	s.logg.Info(s.logg.WithField(ctx, "checkout_id", session.ID), "checkout.started")
	return &Result{Provider: provider, CheckoutID: session.ID, CheckoutURL: url}, nil
}

func linesFor(c cart.Cart) []Line {
	items := c.Items()
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		title := item.Name
		if item.VariantName != "" {
			title = item.Name + " / " + item.VariantName
		}
		lines = append(lines, Line{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Title:     title,
			Quantity:  item.Quantity,
			UnitPrice: item.VariantPrice,
		})
	}
	return lines
}

// Idempotency conflicts keep their code; every other gateway failure is a dependency error.
func asDependency(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeIdempotency {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
