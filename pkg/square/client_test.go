package square

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
	sqcore "github.com/square/square-go-sdk/core"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type stubLinks struct {
	req  *sqcheckout.CreatePaymentLinkRequest
	resp *sq.CreatePaymentLinkResponse
	err  error
}

func (s *stubLinks) Create(_ context.Context, req *sqcheckout.CreatePaymentLinkRequest, _ ...sqoption.RequestOption) (*sq.CreatePaymentLinkResponse, error) {
	s.req = req
	return s.resp, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.SquareConfig{AccessToken: "t", LocationID: "L"}, nil); !errors.Is(err, errLoggerRequired) {
		t.Fatalf("expected logger error, got %v", err)
	}
	if _, err := NewClient(ctx, config.SquareConfig{LocationID: "L"}, testLogger()); !errors.Is(err, errAccessTokenRequired) {
		t.Fatalf("expected token error, got %v", err)
	}
	if _, err := NewClient(ctx, config.SquareConfig{AccessToken: "t"}, testLogger()); !errors.Is(err, errLocationRequired) {
		t.Fatalf("expected location error, got %v", err)
	}
	if _, err := NewClient(ctx, config.SquareConfig{AccessToken: "t", LocationID: "L", Env: "staging"}, testLogger()); !errors.Is(err, errInvalidSquareEnv) {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestCreatePaymentLinkBuildsOrder(t *testing.T) {
	url := "https://square.link/u/abc"
	id := "link_1"
	links := &stubLinks{resp: &sq.CreatePaymentLinkResponse{PaymentLink: &sq.PaymentLink{ID: &id, URL: &url}}}
	c := &Client{links: links, locationID: "LOC", logger: testLogger()}

	link, err := c.CreatePaymentLink(context.Background(), PaymentLinkParams{
		IdempotencyKey: "idem-1",
		ReferenceID:    "session-1",
		Lines: []LineItem{
			{Name: "Tee / S", Quantity: 2, AmountMinor: 1250, Currency: "aud", ReferenceID: "11"},
		},
	})
	if err != nil {
		t.Fatalf("create payment link: %v", err)
	}
	if link.URL != url || link.ID != id {
		t.Fatalf("unexpected link %+v", link)
	}
	if stringValue(links.req.IdempotencyKey) != "idem-1" {
		t.Fatalf("idempotency key not forwarded")
	}
	order := links.req.Order
	if order.LocationID != "LOC" || stringValue(order.ReferenceID) != "session-1" || len(order.LineItems) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
	line := order.LineItems[0]
	if line.Quantity != "2" || *line.BasePriceMoney.Amount != 1250 || *line.BasePriceMoney.Currency != sq.Currency("AUD") {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestCreatePaymentLinkRequiresLines(t *testing.T) {
	c := &Client{links: &stubLinks{}, logger: testLogger()}
	_, err := c.CreatePaymentLink(context.Background(), PaymentLinkParams{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePaymentLinkMapsErrors(t *testing.T) {
	links := &stubLinks{err: sqcore.NewAPIError(http.StatusServiceUnavailable, errors.New(`{"errors":[]}`))}
	c := &Client{links: links, logger: testLogger()}
	_, err := c.CreatePaymentLink(context.Background(), PaymentLinkParams{Lines: []LineItem{{Name: "x", Quantity: 1}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestEnsureIdempotencyKey(t *testing.T) {
	c := &Client{}
	if got := c.ensureIdempotencyKey("pref", "custom-key"); got != "custom-key" {
		t.Fatalf("expected provided key, got %q", got)
	}
	if got := c.ensureIdempotencyKey("prefix", ""); !strings.HasPrefix(got, "prefix-") {
		t.Fatalf("generated idempotency key %q missing prefix", got)
	}
}

func TestRedact(t *testing.T) {
	c := &Client{}
	if out := c.redact("access_token", "abc123"); out != "[REDACTED]" {
		t.Fatalf("expected redacted value, got %v", out)
	}
	if v := c.redact("status", "ok"); v != "ok" {
		t.Fatalf("unexpected redaction for safe key")
	}
}

func TestDomainCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusUnauthorized, pkgerrors.CodeDependency},
		{http.StatusTooManyRequests, pkgerrors.CodeDependency},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		if got := domainCodeForStatus(tt.status); got != tt.code {
			t.Fatalf("status %d expected %s got %s", tt.status, tt.code, got)
		}
	}
}

func TestMapSquareErrorIdempotency(t *testing.T) {
	c := &Client{}
	err := sqcore.NewAPIError(http.StatusBadRequest, errors.New(`{"errors":[{"category":"API_ERROR","code":"IDEMPOTENCY_KEY_REUSED"}]}`))
	typed := pkgerrors.As(c.mapSquareError(err, "operation"))
	if typed == nil || typed.Code() != pkgerrors.CodeIdempotency {
		t.Fatalf("expected idempotency code, got %v", typed)
	}
}

func TestExtractSquareErrors(t *testing.T) {
	c := &Client{}
	payload := `{"errors":[{"category":"API_ERROR","code":"BAD_REQUEST","detail":"oops"}]}`
	apiErr := sqcore.NewAPIError(http.StatusBadRequest, errors.New(payload))
	got := c.extractSquareErrors(apiErr)
	if len(got) != 1 {
		t.Fatalf("expected 1 error, got %d", len(got))
	}
	if got[0].GetCode() != sq.ErrorCodeBadRequest {
		t.Fatalf("unexpected error code %s", got[0].GetCode())
	}
}
