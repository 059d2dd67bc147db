package shopify

// Money is a Storefront MoneyV2 value. Amount stays a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type Variant struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price Money  `json:"price"`
	Image *Image `json:"image"`
}

type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Images      struct {
		Nodes []Image `json:"nodes"`
	} `json:"images"`
	Variants struct {
		Nodes []Variant `json:"nodes"`
	} `json:"variants"`
}

type Collection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Products struct {
		Nodes []Product `json:"nodes"`
	} `json:"products"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Checkout is the hosted checkout created by checkoutCreate.
type Checkout struct {
	ID     string `json:"id"`
	WebURL string `json:"webUrl"`
}

// LineItemInput is one line added to a checkout. VariantID must be a global id.
type LineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// UserError is a checkoutUserErrors entry.
type UserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
