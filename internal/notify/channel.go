// Package notify fans an accepted order out to the configured notification
// channels. Channels are advisory: the order record is the source of truth
// and a channel failure never fails the customer-facing request.
package notify

import (
	"context"
	"time"

	"github.com/hikstore/order-intake/internal/orders"
)

// Channel delivers a copy of the order to one external system.
type Channel interface {
	Name() string
	Send(ctx context.Context, o *orders.Order) error
}

// Outcome is the per-channel result of one dispatch.
type Outcome struct {
	Channel  string        `json:"channel"`
	OK       bool          `json:"ok"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RetryMessage is the payload enqueued for the retry worker when one or more
// channels failed during intake.
type RetryMessage struct {
	OrderNumber   string   `json:"order_number"`
	Channels      []string `json:"channels"`
	CorrelationID string   `json:"correlation_id,omitempty"`
}
