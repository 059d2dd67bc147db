package checkout

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// LineViolation describes why a cart line cannot be checked out.
type LineViolation struct {
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
}

// ValidateLines rejects an empty cart and lines that break the cart invariants.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	var violations []LineViolation
	for _, l := range lines {
		switch {
		case l.VariantID == "":
			violations = append(violations, LineViolation{VariantID: l.VariantID, Reason: "missing variant id"})
		case l.Quantity < 1:
			violations = append(violations, LineViolation{VariantID: l.VariantID, Reason: "quantity must be at least 1"})
		case l.UnitPrice.IsNegative():
			violations = append(violations, LineViolation{VariantID: l.VariantID, Reason: "unit price must not be negative"})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%d cart line(s) cannot be checked out", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
