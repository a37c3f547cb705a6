package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/hikstore/order-intake/internal/orders"
)

const ChannelRelayForm = "relay-form"

// relayResponse is the Web3Forms-style envelope the relay answers with.
type relayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RelayFormChannel forwards the order as a form submission to a third-party
// relay (Web3Forms), which mails it onward. The access key stays server-side.
type RelayFormChannel struct {
	client    *resty.Client
	endpoint  string
	accessKey string
	notifyTo  string
}

// NewRelayForm builds the relay channel. notifyTo is the address the relay
// should deliver to; when empty the relay falls back to the customer email.
func NewRelayForm(endpoint, accessKey, notifyTo string) *RelayFormChannel {
	return &RelayFormChannel{
		client:    resty.New(),
		endpoint:  endpoint,
		accessKey: accessKey,
		notifyTo:  notifyTo,
	}
}

func (c *RelayFormChannel) Name() string { return ChannelRelayForm }

func (c *RelayFormChannel) Send(ctx context.Context, o *orders.Order) error {
	to := c.notifyTo
	if to == "" {
		to = o.CustomerEmail
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"access_key":       c.accessKey,
			"subject":          fmt.Sprintf("New Order: %s - HIK Store UAE", o.OrderNumber),
			"from_name":        o.CustomerName,
			"email":            o.CustomerEmail,
			"phone":            o.CustomerPhone,
			"order_number":     o.OrderNumber,
			"tracking_number":  o.TrackingNumber,
			"total_amount":     fmt.Sprintf("AED %.2f", o.TotalAmount),
			"shipping_address": o.ShippingAddress,
			"payment_method":   o.PaymentMethod,
			"to":               to,
			"reply_to":         o.CustomerEmail,
		}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("relay post: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("relay status %d", resp.StatusCode())
	}

	var body relayResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return fmt.Errorf("relay response: %w", err)
	}
	if !body.Success {
		return fmt.Errorf("relay rejected: %s", body.Message)
	}
	return nil
}
