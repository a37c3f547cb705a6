package orders

import "time"

// Order statuses. Intake only ever mints the first two: cash-on-delivery
// orders wait for payment on delivery, everything else is handed to
// fulfillment as processing. Paid is set by a payment gateway callback that
// lives outside this service.
const (
	StatusProcessing     = "processing"
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
)

// PaymentMethodCOD is the cash-on-delivery payment tag.
const PaymentMethodCOD = "cod"

// StatusFor maps a payment method to the status a freshly accepted order gets.
func StatusFor(paymentMethod string) string {
	if paymentMethod == PaymentMethodCOD {
		return StatusPendingPayment
	}
	return StatusProcessing
}

// Item is a single order line.
type Item struct {
	Title     string  `dynamodbav:"title" json:"title"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unit_price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
}

// Order is the normalized record stored in the orders table. It is written
// once by the intake pipeline and never mutated by it; status transitions
// belong to fulfillment.
type Order struct {
	OrderNumber    string `dynamodbav:"order_number" json:"order_number"` // PK
	TrackingNumber string `dynamodbav:"tracking_number" json:"tracking_number"`
	Status         string `dynamodbav:"status" json:"status"`

	CustomerName  string `dynamodbav:"customer_name" json:"customer_name"`
	CustomerEmail string `dynamodbav:"customer_email" json:"customer_email"`
	CustomerPhone string `dynamodbav:"customer_phone" json:"customer_phone"`

	ShippingAddress      string `dynamodbav:"shipping_address" json:"shipping_address"`
	ShippingCity         string `dynamodbav:"shipping_city" json:"shipping_city"`
	ShippingRegion       string `dynamodbav:"shipping_region" json:"shipping_region"`
	ShippingCountry      string `dynamodbav:"shipping_country" json:"shipping_country"`
	DeliveryInstructions string `dynamodbav:"delivery_instructions,omitempty" json:"delivery_instructions,omitempty"`

	Items []Item `dynamodbav:"items" json:"items"`

	Subtotal    float64 `dynamodbav:"subtotal" json:"subtotal"`
	ShippingFee float64 `dynamodbav:"shipping_fee" json:"shipping_fee"`
	TaxAmount   float64 `dynamodbav:"tax_amount" json:"tax_amount"`
	TotalAmount float64 `dynamodbav:"total_amount" json:"total_amount"`

	PaymentMethod    string `dynamodbav:"payment_method" json:"payment_method"`
	MarketingConsent bool   `dynamodbav:"marketing_consent,omitempty" json:"marketing_consent,omitempty"`

	SourceIP  string `dynamodbav:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string `dynamodbav:"user_agent,omitempty" json:"user_agent,omitempty"`

	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
}
