package cart

import (
	cartdto "github.com/angelmondragon/storefront-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-backend/internal/cart"
)

func newCartResponse(c cart.Cart) cartdto.Cart {
	items := make([]cartdto.CartItem, 0, c.Len())
	for _, item := range c.Items() {
		items = append(items, cartdto.CartItem{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			Name:         item.Name,
			VariantName:  item.VariantName,
			VariantPrice: item.VariantPrice,
			VariantImage: item.VariantImage,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}
	return cartdto.Cart{
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		TotalPrice:    c.TotalPrice(),
	}
}
