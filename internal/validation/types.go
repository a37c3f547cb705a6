package validation

// Customer identifies who placed the order.
type Customer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

// Shipping is the delivery address block. Individual fields are optional but
// at least one must be present (checked at the struct level).
type Shipping struct {
	Address              string `json:"address"`
	City                 string `json:"city"`
	Region               string `json:"region"`
	Country              string `json:"country"`
	DeliveryInstructions string `json:"delivery_instructions,omitempty"`
}

// Item is a single line of the checkout cart.
type Item struct {
	Title    string  `json:"title" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"` // unit price
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

// Totals is the client's view of the money. The server recomputes the
// subtotal and total from the items; client values only ever reject an
// order, they are never trusted into the stored record.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// OrderRequest is the untrusted checkout payload for POST /api/orders.
// Field order matters: validation reports the first failing group, and
// groups are checked in declaration order.
type OrderRequest struct {
	Customer         Customer `json:"customer" validate:"required"`
	Shipping         Shipping `json:"shipping"`
	Items            []Item   `json:"items" validate:"required,min=1,dive"`
	Totals           *Totals  `json:"totals,omitempty"`
	PaymentMethod    string   `json:"payment_method" validate:"required"`
	MarketingConsent bool     `json:"marketing_consent,omitempty"`
	IdempotencyKey   string   `json:"idempotency_key,omitempty"`
}
