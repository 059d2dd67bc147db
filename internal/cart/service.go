package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/selection"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type selectionReader interface {
	Resolve(ctx context.Context, sessionID, productID string) (*selection.Record, error)
}

type mutationRecorder interface {
	CartMutation(action string, err error)
}

// Service exposes the cart operations of a shopper session. Every mutation loads
// the stored cart, applies one action and persists the result before returning.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	AddToCart(ctx context.Context, sessionID, productID string) (Cart, error)
	IncreaseLineQuantity(ctx context.Context, sessionID, variantID string) (Cart, error)
	DecreaseLineQuantity(ctx context.Context, sessionID, variantID string) (Cart, error)
	RemoveLineItem(ctx context.Context, sessionID, variantID string) (Cart, error)
}

type service struct {
	store      Store
	selections selectionReader
	metrics    mutationRecorder
	locks      *stripedLocks
	logg       *logger.Logger
}

// NewService builds a cart service over store. recorder may be nil.
func NewService(store Store, selections selectionReader, recorder mutationRecorder, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if selections == nil {
		return nil, fmt.Errorf("selection reader required")
	}
	if recorder == nil {
		recorder = (*metrics.Storefront)(nil)
	}
	return &service{
		store:      store,
		selections: selections,
		metrics:    recorder,
		locks:      newStripedLocks(defaultStripes),
		logg:       logg,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return Cart{}, err
	}
	return s.load(ctx, sessionID)
}

func (s *service) AddToCart(ctx context.Context, sessionID, productID string) (Cart, error) {
	productID = gid.Normalize(productID)
	if productID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.mutate(ctx, sessionID, Add{}.Name(), func(c Cart) (Cart, error) {
		rec, err := s.selections.Resolve(ctx, sessionID, productID)
		if err != nil {
			return c, err
		}
		if rec == nil || rec.Quantity < 1 {
			return c, pkgerrors.New(pkgerrors.CodeStateConflict, "no selection for product").WithDetails(map[string]any{
				"product_id": productID,
			})
		}
		return Reduce(c, Add{Item: Commit(*rec)}), nil
	})
}

func (s *service) IncreaseLineQuantity(ctx context.Context, sessionID, variantID string) (Cart, error) {
	return s.mutateLine(ctx, sessionID, variantID, func(id string) Action { return Increase{VariantID: id} })
}

func (s *service) DecreaseLineQuantity(ctx context.Context, sessionID, variantID string) (Cart, error) {
	return s.mutateLine(ctx, sessionID, variantID, func(id string) Action { return Decrease{VariantID: id} })
}

func (s *service) RemoveLineItem(ctx context.Context, sessionID, variantID string) (Cart, error) {
	return s.mutateLine(ctx, sessionID, variantID, func(id string) Action { return Remove{VariantID: id} })
}

func (s *service) mutateLine(ctx context.Context, sessionID, variantID string, build func(string) Action) (Cart, error) {
	variantID = gid.Normalize(variantID)
	if variantID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	action := build(variantID)
	return s.mutate(ctx, sessionID, action.Name(), func(c Cart) (Cart, error) {
		if _, ok := c.FindVariant(variantID); !ok {
			return c, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found").WithDetails(map[string]any{
				"variant_id": variantID,
			})
		}
		return Reduce(c, action), nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID, action string, fn func(Cart) (Cart, error)) (result Cart, err error) {
	if err := requireSession(sessionID); err != nil {
		return Cart{}, err
	}
	defer func() { s.metrics.CartMutation(action, err) }()

	unlock := s.locks.lock(sessionID)
	defer unlock()

	current, err := s.load(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return current, err
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"action":         action,
		"lines":          next.Len(),
		"total_quantity": next.TotalQuantity(),
	}), "cart.mutated")
	return next, nil
}

func (s *service) load(ctx context.Context, sessionID string) (Cart, error) {
	raw, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	c, decodeErr := Decode(raw)
	if decodeErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", decodeErr.Error()), "cart.load_sanitized")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, sessionID string, c Cart) error {
	payload, err := Encode(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Save(ctx, sessionID, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
