package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikstore/order-intake/internal/orders"
)

func validRequest() *OrderRequest {
	return &OrderRequest{
		Customer: Customer{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "+971501234567",
		},
		Shipping: Shipping{
			Address: "1 Main St",
			City:    "Dubai",
			Region:  "Dubai",
			Country: "UAE",
		},
		Items: []Item{
			{Title: "Widget", Price: 50, Quantity: 2},
		},
		Totals: &Totals{
			Subtotal: 100,
			Shipping: 10,
			Tax:      0,
			Total:    110,
		},
		PaymentMethod: "cod",
	}
}

func TestValidate_NormalizesValidOrder(t *testing.T) {
	v := New()

	order, err := v.Validate(validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", order.CustomerName)
	assert.Equal(t, orders.StatusPendingPayment, order.Status)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 10.0, order.ShippingFee)
	assert.Equal(t, 110.0, order.TotalAmount)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 50.0, order.Items[0].UnitPrice)
	// identifiers are minted by the pipeline, not the validator
	assert.Empty(t, order.OrderNumber)
	assert.Empty(t, order.TrackingNumber)
}

func TestValidate_FirstFailingGroup(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*OrderRequest)
		wantGroup string
	}{
		{
			name:      "missing customer email",
			mutate:    func(r *OrderRequest) { r.Customer.Email = "" },
			wantGroup: "customer",
		},
		{
			name:      "malformed email",
			mutate:    func(r *OrderRequest) { r.Customer.Email = "not-an-email" },
			wantGroup: "customer",
		},
		{
			name:      "phone too short",
			mutate:    func(r *OrderRequest) { r.Customer.Phone = "12345" },
			wantGroup: "customer",
		},
		{
			name:      "phone with letters",
			mutate:    func(r *OrderRequest) { r.Customer.Phone = "+971 call me" },
			wantGroup: "customer",
		},
		{
			name: "no shipping fields at all",
			mutate: func(r *OrderRequest) {
				r.Shipping = Shipping{}
			},
			wantGroup: "shipping",
		},
		{
			name:      "empty item list",
			mutate:    func(r *OrderRequest) { r.Items = nil },
			wantGroup: "items",
		},
		{
			name: "zero quantity",
			mutate: func(r *OrderRequest) {
				r.Items[0].Quantity = 0
				r.Totals = nil
			},
			wantGroup: "items",
		},
		{
			name: "negative unit price",
			mutate: func(r *OrderRequest) {
				r.Items[0].Price = -1
				r.Totals = nil
			},
			wantGroup: "items",
		},
		{
			name: "totals drift beyond tolerance",
			mutate: func(r *OrderRequest) {
				r.Totals.Total = 111.50
			},
			wantGroup: "totals",
		},
		{
			name: "tampered total consistent with fake subtotal",
			mutate: func(r *OrderRequest) {
				// claims a lower subtotal; the server recomputes from items
				r.Totals.Subtotal = 50
				r.Totals.Total = 60
			},
			wantGroup: "totals",
		},
		{
			name:      "missing payment method",
			mutate:    func(r *OrderRequest) { r.PaymentMethod = "" },
			wantGroup: "payment",
		},
		{
			name: "customer failure reported before payment failure",
			mutate: func(r *OrderRequest) {
				r.Customer.Name = ""
				r.PaymentMethod = ""
			},
			wantGroup: "customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			req := validRequest()
			tt.mutate(req)

			_, err := v.Validate(req)
			require.Error(t, err)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantGroup, fe.Group)
		})
	}
}

func TestValidate_TotalsWithinTolerance(t *testing.T) {
	v := New()
	req := validRequest()
	req.Totals.Total = 110.009

	order, err := v.Validate(req)
	require.NoError(t, err)
	// server-computed total wins over the client's
	assert.Equal(t, 110.0, order.TotalAmount)
}

func TestValidate_MissingTotalsComputedFromItems(t *testing.T) {
	v := New()
	req := validRequest()
	req.Totals = nil

	order, err := v.Validate(req)
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingFee)
	assert.Equal(t, 100.0, order.TotalAmount)
}

func TestValidate_NonCodIsProcessing(t *testing.T) {
	v := New()
	req := validRequest()
	req.PaymentMethod = "card"

	order, err := v.Validate(req)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusProcessing, order.Status)
}
