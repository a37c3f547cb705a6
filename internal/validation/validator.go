package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/hikstore/order-intake/internal/orders"
)

// totalsTolerance is the allowed absolute drift between the client total and
// the server-computed total, in currency units.
const totalsTolerance = 0.01

var phoneRE = regexp.MustCompile(`^[0-9+\-\s]{7,20}$`)

// FieldError names the first field group a payload failed on. It is always a
// client error, never a server fault.
type FieldError struct {
	Group  string // customer | shipping | items | totals | payment
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Group, e.Reason)
}

// Validator checks a raw checkout payload and normalizes it into an Order.
type Validator struct {
	v *validatorv10.Validate
}

// New returns a configured validator with the phone format rule and the
// struct-level shipping/totals checks registered.
func New() *Validator {
	v := validatorv10.New()

	// tag registration never fails for a non-empty tag and a non-nil func
	_ = v.RegisterValidation("phone", func(fl validatorv10.FieldLevel) bool {
		return phoneRE.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(orderRequestStructValidation, OrderRequest{})

	return &Validator{v: v}
}

// orderRequestStructValidation covers the rules individual field tags can't:
// at least one shipping field, and totals consistency against the items.
func orderRequestStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(OrderRequest)

	s := req.Shipping
	if s.Address == "" && s.City == "" && s.Region == "" && s.Country == "" {
		sl.ReportError(req.Shipping, "shipping", "Shipping", "shipping_required", "")
	}

	if req.Totals != nil {
		computed := itemsSubtotal(req.Items) + req.Totals.Shipping + req.Totals.Tax
		if math.Abs(req.Totals.Total-computed) > totalsTolerance {
			sl.ReportError(req.Totals.Total, "totals", "Totals", "totals_match_items",
				fmt.Sprintf("computed %.2f != total %.2f", computed, req.Totals.Total))
		}
	}
}

// Validate checks req and returns the normalized order, without identifiers,
// status derived from the payment method, totals recomputed server-side.
// On failure it returns a *FieldError naming the first failing field group.
func (vd *Validator) Validate(req *OrderRequest) (*orders.Order, error) {
	if err := vd.v.Struct(req); err != nil {
		var ves validatorv10.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			return nil, &FieldError{
				Group:  groupOf(fe.Namespace()),
				Reason: fmt.Sprintf("field %s failed on rule %s", fe.Field(), fe.Tag()),
			}
		}
		return nil, &FieldError{Group: "customer", Reason: err.Error()}
	}

	subtotal := itemsSubtotal(req.Items)
	var shipping, tax float64
	if req.Totals != nil {
		shipping = req.Totals.Shipping
		tax = req.Totals.Tax
	}

	items := make([]orders.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.Item{
			Title:     it.Title,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
	}

	return &orders.Order{
		Status:               orders.StatusFor(req.PaymentMethod),
		CustomerName:         strings.TrimSpace(req.Customer.Name),
		CustomerEmail:        strings.TrimSpace(req.Customer.Email),
		CustomerPhone:        strings.TrimSpace(req.Customer.Phone),
		ShippingAddress:      req.Shipping.Address,
		ShippingCity:         req.Shipping.City,
		ShippingRegion:       req.Shipping.Region,
		ShippingCountry:      req.Shipping.Country,
		DeliveryInstructions: req.Shipping.DeliveryInstructions,
		Items:                items,
		Subtotal:             round2(subtotal),
		ShippingFee:          round2(shipping),
		TaxAmount:            round2(tax),
		TotalAmount:          round2(subtotal + shipping + tax),
		PaymentMethod:        req.PaymentMethod,
		MarketingConsent:     req.MarketingConsent,
	}, nil
}

func itemsSubtotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += float64(it.Quantity) * it.Price
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// groupOf maps a validator namespace like "OrderRequest.Customer.Email" or
// "OrderRequest.Items[0].Quantity" onto the field group named in errors.
func groupOf(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return "customer"
	}
	head := strings.ToLower(parts[1])
	if i := strings.IndexByte(head, '['); i >= 0 {
		head = head[:i]
	}
	switch {
	case strings.HasPrefix(head, "customer"):
		return "customer"
	case strings.HasPrefix(head, "shipping"):
		return "shipping"
	case strings.HasPrefix(head, "items"):
		return "items"
	case strings.HasPrefix(head, "totals"):
		return "totals"
	case strings.HasPrefix(head, "payment"):
		return "payment"
	default:
		return head
	}
}
