package selection

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubProducts struct {
	products map[string]catalog.Product
	calls    int
}

func (s *stubProducts) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	s.calls++
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func newTestService(t *testing.T) (Service, *stubProducts) {
	t.Helper()
	products := &stubProducts{products: map[string]catalog.Product{"1": testProduct()}}
	svc, err := NewService(NewRegistry(time.Hour), products, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, products
}

func TestServiceSelectionFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Current(ctx, "s1", "1")
	if err != nil || rec != nil {
		t.Fatalf("expected no selection, got %+v err=%v", rec, err)
	}

	rec, err = svc.SelectVariant(ctx, "s1", "gid://shopify/Product/1", "12")
	if err != nil {
		t.Fatalf("select variant: %v", err)
	}
	if rec.VariantID != "12" || rec.Quantity != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}

	rec, err = svc.Increase(ctx, "s1", "1")
	if err != nil || rec.Quantity != 2 {
		t.Fatalf("increase: %+v err=%v", rec, err)
	}

	rec, err = svc.Decrease(ctx, "s1", "1")
	if err != nil || rec.Quantity != 1 {
		t.Fatalf("decrease: %+v err=%v", rec, err)
	}

	rec, err = svc.Decrease(ctx, "s1", "1")
	if err != nil || rec != nil {
		t.Fatalf("expected removal, got %+v err=%v", rec, err)
	}
}

func TestServiceValidation(t *testing.T) {
	svc, products := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Increase(ctx, "", "1"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for session, got %v", err)
	}
	if _, err := svc.Increase(ctx, "s1", " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for product, got %v", err)
	}
	if _, err := svc.SelectVariant(ctx, "s1", "1", ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for variant, got %v", err)
	}
	if _, err := svc.Increase(ctx, "s1", "404"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if products.calls != 1 {
		t.Fatalf("expected catalog lookups only after validation, got %d", products.calls)
	}
}

func TestServiceResolveFallsBackAfterCatalogChange(t *testing.T) {
	svc, products := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Resolve(ctx, "s1", "1")
	if err != nil || rec != nil {
		t.Fatalf("expected no selection, got %+v err=%v", rec, err)
	}

	if _, err := svc.SelectVariant(ctx, "s1", "1", "12"); err != nil {
		t.Fatalf("select variant: %v", err)
	}
	p := products.products["1"]
	p.Variants = p.Variants[:1]
	products.products["1"] = p

	rec, err = svc.Resolve(ctx, "s1", "1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec.VariantID != "11" || rec.Quantity != 1 || !rec.UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected fallback to first variant, got %+v", rec)
	}
	current, _ := svc.Current(ctx, "s1", "1")
	if current.VariantID != "11" {
		t.Fatalf("expected registry to hold the resolved record, got %+v", current)
	}
}
