package cartdto

import "github.com/shopspring/decimal"

// AddItemRequest commits the pending selection for ProductID into the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,shopid"`
}

type CartItem struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id"`
	Name         string          `json:"name"`
	VariantName  string          `json:"variant_name"`
	VariantPrice decimal.Decimal `json:"variant_price"`
	VariantImage string          `json:"variant_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// Cart is the full cart view. TotalQuantity drives the header badge.
type Cart struct {
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}
