package shopify

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const checkoutCreateMutation = `
mutation CheckoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout { id webUrl }
    checkoutUserErrors { code field message }
  }
}`

const checkoutLineItemsAddMutation = `
mutation CheckoutLineItemsAdd($checkoutId: ID!, $lineItems: [CheckoutLineItemInput!]!) {
  checkoutLineItemsAdd(checkoutId: $checkoutId, lineItems: $lineItems) {
    checkout { id webUrl }
    checkoutUserErrors { code field message }
  }
}`

type checkoutPayload struct {
	Checkout   *Checkout   `json:"checkout"`
	UserErrors []UserError `json:"checkoutUserErrors"`
}

// CreateCheckout opens an empty hosted checkout.
func (c *Client) CreateCheckout(ctx context.Context) (*Checkout, error) {
	var data struct {
		CheckoutCreate checkoutPayload `json:"checkoutCreate"`
	}
	if err := c.do(ctx, "checkoutCreate", checkoutCreateMutation, map[string]any{"input": map[string]any{}}, &data); err != nil {
		return nil, err
	}
	return data.CheckoutCreate.result("checkoutCreate")
}

// AddCheckoutLineItems appends lines to an existing checkout and returns it with its web URL.
func (c *Client) AddCheckoutLineItems(ctx context.Context, checkoutID string, lines []LineItemInput) (*Checkout, error) {
	if strings.TrimSpace(checkoutID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout id is required")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line items are required")
	}
	var data struct {
		CheckoutLineItemsAdd checkoutPayload `json:"checkoutLineItemsAdd"`
	}
	vars := map[string]any{"checkoutId": checkoutID, "lineItems": lines}
	if err := c.do(ctx, "checkoutLineItemsAdd", checkoutLineItemsAddMutation, vars, &data); err != nil {
		return nil, err
	}
	return data.CheckoutLineItemsAdd.result("checkoutLineItemsAdd")
}

func (p checkoutPayload) result(op string) (*Checkout, error) {
	if len(p.UserErrors) > 0 {
		details := make([]map[string]any, 0, len(p.UserErrors))
		for _, ue := range p.UserErrors {
			details = append(details, map[string]any{
				"code":    ue.Code,
				"field":   strings.Join(ue.Field, "."),
				"message": ue.Message,
			})
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, op+" rejected").WithDetails(details)
	}
	if p.Checkout == nil || p.Checkout.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, op+" returned no checkout")
	}
	return p.Checkout, nil
}
