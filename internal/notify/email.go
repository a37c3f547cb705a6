package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/hikstore/order-intake/internal/aws"
	"github.com/hikstore/order-intake/internal/orders"
)

const (
	ChannelAdminEmail    = "admin-email"
	ChannelCustomerEmail = "customer-email"
)

var adminEmailTmpl = template.Must(template.New("admin").Parse(`NEW ORDER {{.OrderNumber}}

Tracking: {{.TrackingNumber}}
Placed:   {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}
Status:   {{.Status}}

Customer
  {{.CustomerName}}
  {{.CustomerEmail}}
  {{.CustomerPhone}}

Ship to
  {{.ShippingAddress}}
  {{.ShippingCity}}, {{.ShippingRegion}}
  {{.ShippingCountry}}
{{- if .DeliveryInstructions}}
  Instructions: {{.DeliveryInstructions}}
{{- end}}

Items
{{- range .Items}}
  {{.Quantity}}x {{.Title}} @ AED {{printf "%.2f" .UnitPrice}}
{{- end}}

Subtotal: AED {{printf "%.2f" .Subtotal}}
Shipping: AED {{printf "%.2f" .ShippingFee}}
Tax:      AED {{printf "%.2f" .TaxAmount}}
Total:    AED {{printf "%.2f" .TotalAmount}}
Payment:  {{.PaymentMethod}}
`))

var customerEmailTmpl = template.Must(template.New("customer").Parse(`Thank you for your order!

Order number:    {{.OrderNumber}}
Tracking number: {{.TrackingNumber}}
Estimated delivery: 2-3 business days

Your items
{{- range .Items}}
  {{.Quantity}}x {{.Title}} - AED {{printf "%.2f" .UnitPrice}}
{{- end}}

Subtotal: AED {{printf "%.2f" .Subtotal}}
Shipping: {{if eq .ShippingFee 0.0}}FREE{{else}}AED {{printf "%.2f" .ShippingFee}}{{end}}
Total:    AED {{printf "%.2f" .TotalAmount}}

Shipping to
  {{.ShippingAddress}}
  {{.ShippingCity}}, {{.ShippingRegion}}
  {{.ShippingCountry}}

Need help? Reply to this email.
`))

// EmailChannel delivers an order summary over SES. The admin and customer
// variants differ only in recipient, subject, and template.
type EmailChannel struct {
	name      string
	ses       aws.SESAPI
	sender    string
	recipient func(*orders.Order) string
	replyTo   func(*orders.Order) string
	subject   func(*orders.Order) string
	tmpl      *template.Template
}

// NewAdminEmail notifies the store operator, with reply-to pointed at the
// customer so the operator can answer directly.
func NewAdminEmail(ses aws.SESAPI, sender, adminAddr string) *EmailChannel {
	return &EmailChannel{
		name:      ChannelAdminEmail,
		ses:       ses,
		sender:    sender,
		recipient: func(*orders.Order) string { return adminAddr },
		replyTo:   func(o *orders.Order) string { return o.CustomerEmail },
		subject: func(o *orders.Order) string {
			return fmt.Sprintf("NEW ORDER %s - HIK Store UAE", o.OrderNumber)
		},
		tmpl: adminEmailTmpl,
	}
}

// NewCustomerEmail sends the order confirmation to the customer.
func NewCustomerEmail(ses aws.SESAPI, sender string) *EmailChannel {
	return &EmailChannel{
		name:      ChannelCustomerEmail,
		ses:       ses,
		sender:    sender,
		recipient: func(o *orders.Order) string { return o.CustomerEmail },
		subject: func(o *orders.Order) string {
			return fmt.Sprintf("Order Confirmation %s", o.OrderNumber)
		},
		tmpl: customerEmailTmpl,
	}
}

func (c *EmailChannel) Name() string { return c.name }

func (c *EmailChannel) Send(ctx context.Context, o *orders.Order) error {
	var body bytes.Buffer
	if err := c.tmpl.Execute(&body, o); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	subject := c.subject(o)
	bodyStr := body.String()
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.sender,
		Destination: &sestypes.Destination{
			ToAddresses: []string{c.recipient(o)},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: &subject},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: &bodyStr},
				},
			},
		},
	}
	if c.replyTo != nil {
		input.ReplyToAddresses = []string{c.replyTo(o)}
	}

	if _, err := c.ses.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
