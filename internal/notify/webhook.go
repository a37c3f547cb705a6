package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/hikstore/order-intake/internal/orders"
)

const ChannelWebhook = "webhook"

// WebhookChannel posts the full order as JSON to a configured URL, for shops
// that pipe orders into their own tooling.
type WebhookChannel struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string) *WebhookChannel {
	return &WebhookChannel{
		client: resty.New(),
		url:    url,
	}
}

func (c *WebhookChannel) Name() string { return ChannelWebhook }

func (c *WebhookChannel) Send(ctx context.Context, o *orders.Order) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(o).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode())
	}
	return nil
}
