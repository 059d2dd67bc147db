package selection

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type productLoader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// Service exposes the selection operations of a product page.
type Service interface {
	Current(ctx context.Context, sessionID, productID string) (*Record, error)
	SelectVariant(ctx context.Context, sessionID, productID, variantID string) (*Record, error)
	Increase(ctx context.Context, sessionID, productID string) (*Record, error)
	Decrease(ctx context.Context, sessionID, productID string) (*Record, error)
	// Resolve returns the current record re-checked against the catalog, so a
	// variant the catalog no longer carries falls back to the first variant.
	Resolve(ctx context.Context, sessionID, productID string) (*Record, error)
}

type service struct {
	registry *Registry
	products productLoader
	logg     *logger.Logger
}

// NewService builds the selection service. A nil record from any method means
// the product has no pending selection.
func NewService(registry *Registry, products productLoader, logg *logger.Logger) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("selection registry required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{registry: registry, products: products, logg: logg}, nil
}

func (s *service) Current(ctx context.Context, sessionID, productID string) (*Record, error) {
	productID, err := s.validate(sessionID, productID)
	if err != nil {
		return nil, err
	}
	return recordPtr(s.registry.Find(sessionID, productID)), nil
}

func (s *service) SelectVariant(ctx context.Context, sessionID, productID, variantID string) (*Record, error) {
	productID, err := s.validate(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(variantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, ok := product.FindVariant(variantID); !ok {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"product_id": productID, "variant_id": variantID}), "selection.variant_fallback")
	}
	return s.dispatch(sessionID, productID, SelectVariant{Product: *product, VariantID: variantID}), nil
}

func (s *service) Increase(ctx context.Context, sessionID, productID string) (*Record, error) {
	productID, err := s.validate(sessionID, productID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.dispatch(sessionID, productID, Increase{Product: *product}), nil
}

func (s *service) Decrease(ctx context.Context, sessionID, productID string) (*Record, error) {
	productID, err := s.validate(sessionID, productID)
	if err != nil {
		return nil, err
	}
	return s.dispatch(sessionID, productID, Decrease{ProductID: productID}), nil
}

func (s *service) Resolve(ctx context.Context, sessionID, productID string) (*Record, error) {
	productID, err := s.validate(sessionID, productID)
	if err != nil {
		return nil, err
	}
	current, ok := s.registry.Find(sessionID, productID)
	if !ok {
		return nil, nil
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if _, found := product.FindVariant(current.VariantID); !found {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"product_id": productID, "variant_id": current.VariantID}), "selection.variant_fallback")
	}
	return s.dispatch(sessionID, productID, Refresh{Product: *product}), nil
}

func (s *service) dispatch(sessionID, productID string, a Action) *Record {
	return recordPtr(s.registry.Dispatch(sessionID, a).Find(productID))
}

func (s *service) validate(sessionID, productID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	normalized := gid.Normalize(productID)
	if normalized == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return normalized, nil
}

func recordPtr(r Record, ok bool) *Record {
	if !ok {
		return nil
	}
	return &r
}
