package square

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
	sqclient "github.com/square/square-go-sdk/client"
	sqcore "github.com/square/square-go-sdk/core"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"
)

var (
	errAccessTokenRequired = errors.New("square access token is required")
	errLocationRequired    = errors.New("square location id is required")
	errInvalidSquareEnv    = fmt.Errorf("square environment must be %q or %q", sandboxEnv, productionEnv)
	errLoggerRequired      = errors.New("square logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://connect.squareupsandbox.com",
	productionEnv: "https://connect.squareup.com",
}

type paymentLinksAPI interface {
	Create(ctx context.Context, request *sqcheckout.CreatePaymentLinkRequest, opts ...sqoption.RequestOption) (*sq.CreatePaymentLinkResponse, error)
}

// Client exposes the Square hosted checkout with centralized auth, logging, idempotency, and error mapping.
type Client struct {
	links       paymentLinksAPI
	environment string
	locationID  string
	logger      *logger.Logger
}

// NewClient initializes the Square wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.SquareConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}
	locationID := strings.TrimSpace(cfg.LocationID)
	if locationID == "" {
		return nil, errLocationRequired
	}

	sdk := sqclient.NewClient(
		sqoption.WithBaseURL(baseURLs[env]),
		sqoption.WithToken(accessToken),
	)

	c := &Client{
		links:       sdk.Checkout.PaymentLinks,
		environment: env,
		locationID:  locationID,
		logger:      logg,
	}

	logg.Info(ctx, "square client initialized")
	return c, nil
}

// Environment reports the normalized Square environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// NewIdempotencyKey returns a unique key for Square operations.
func (c *Client) NewIdempotencyKey(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "sf"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

// LineItem is one ad-hoc order line. Amounts are in the smallest currency unit.
type LineItem struct {
	Name        string
	Quantity    int
	AmountMinor int64
	Currency    string
	ReferenceID string
}

// PaymentLinkParams describes the order behind a hosted payment link.
type PaymentLinkParams struct {
	IdempotencyKey string
	ReferenceID    string
	Lines          []LineItem
}

// PaymentLink is the hosted checkout returned by Square.
type PaymentLink struct {
	ID      string
	URL     string
	OrderID string
}

// CreatePaymentLink creates a hosted checkout page for an ad-hoc order.
func (c *Client) CreatePaymentLink(ctx context.Context, params PaymentLinkParams) (*PaymentLink, error) {
	if c == nil || c.links == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square client not configured")
	}
	if len(params.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment link requires at least one line")
	}

	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(c.ensureIdempotencyKey("link.create", params.IdempotencyKey)),
		Order:          c.orderFor(params),
	}
	c.log(ctx, "request", "create_payment_link", map[string]any{
		"location_id":  c.locationID,
		"reference_id": params.ReferenceID,
		"lines":        len(params.Lines),
	})

	resp, err := c.links.Create(ctx, req)
	if err != nil {
		c.log(ctx, "error", "create_payment_link", map[string]any{"error": err.Error()})
		return nil, c.mapSquareError(err, "create payment link")
	}

	link := resp.GetPaymentLink()
	out := &PaymentLink{
		ID:      stringValue(link.GetID()),
		URL:     stringValue(link.GetURL()),
		OrderID: stringValue(link.GetOrderID()),
	}
	if out.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square create payment link returned no url")
	}
	c.log(ctx, "response", "create_payment_link", map[string]any{
		"payment_link_id": out.ID,
		"order_id":        out.OrderID,
	})
	return out, nil
}

func (c *Client) orderFor(params PaymentLinkParams) *sq.Order {
	lines := make([]*sq.OrderLineItem, 0, len(params.Lines))
	for _, line := range params.Lines {
		currency := sq.Currency(strings.ToUpper(strings.TrimSpace(line.Currency)))
		amount := line.AmountMinor
		item := &sq.OrderLineItem{
			Name:     ptrString(line.Name),
			Quantity: fmt.Sprintf("%d", line.Quantity),
			BasePriceMoney: &sq.Money{
				Amount:   &amount,
				Currency: &currency,
			},
		}
		if line.ReferenceID != "" {
			item.Note = ptrString(line.ReferenceID)
		}
		lines = append(lines, item)
	}
	order := &sq.Order{
		LocationID: c.locationID,
		LineItems:  lines,
	}
	if params.ReferenceID != "" {
		order.ReferenceID = ptrString(params.ReferenceID)
	}
	return order
}

func (c *Client) ensureIdempotencyKey(prefix, provided string) string {
	if strings.TrimSpace(provided) != "" {
		return provided
	}
	return c.NewIdempotencyKey(prefix)
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("square %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("square %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapSquareError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *sqcore.APIError
	if errors.As(err, &apiErr) {
		code := domainCodeForStatus(apiErr.StatusCode)
		for _, sqErr := range c.extractSquareErrors(apiErr) {
			if sqErr != nil && sqErr.Code == sq.ErrorCodeIdempotencyKeyReused {
				code = pkgerrors.CodeIdempotency
				break
			}
		}
		return pkgerrors.Wrap(code, err, fmt.Sprintf("square %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("square %s failed", op))
}

func (c *Client) extractSquareErrors(apiErr *sqcore.APIError) []*sq.Error {
	if apiErr == nil {
		return nil
	}
	inner := apiErr.Unwrap()
	if inner == nil {
		return nil
	}
	raw := strings.TrimSpace(inner.Error())
	if raw == "" {
		return nil
	}
	var payload struct {
		Errors []*sq.Error `json:"errors"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	return payload.Errors
}

// Shopper-facing failures from Square are upstream failures; only a bad
// request built by us is a validation problem.
func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeDependency
	}
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func ptrString(value string) *string {
	return &value
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidSquareEnv
	}
}
