package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hikstore/order-intake/internal/notify"
	"github.com/hikstore/order-intake/internal/orders"
)

// OrderGetter loads persisted orders for re-dispatch.
type OrderGetter interface {
	Get(ctx context.Context, orderNumber string) (*orders.Order, error)
}

// Redispatcher resends an order to a named subset of channels.
type Redispatcher interface {
	DispatchTo(ctx context.Context, o *orders.Order, names []string) []notify.Outcome
}

// Processor drains the notification retry queue. The API enqueues one
// message per order listing the channels that failed during intake; the
// processor reloads the order and tries those channels again. A returned
// error makes SQS redeliver, and eventually dead-letter, the message.
type Processor struct {
	store      OrderGetter
	dispatcher Redispatcher
}

// NewProcessor creates a retry processor.
func NewProcessor(store OrderGetter, dispatcher Redispatcher) *Processor {
	return &Processor{
		store:      store,
		dispatcher: dispatcher,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg notify.RetryMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] retry order=%s channels=%s corr=%s",
		msg.OrderNumber, strings.Join(msg.Channels, ","), msg.CorrelationID)

	order, err := p.store.Get(ctx, msg.OrderNumber)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// deleted or never persisted; let the message dead-letter
		return fmt.Errorf("order not found: %s", msg.OrderNumber)
	}

	outcomes := p.dispatcher.DispatchTo(ctx, order, msg.Channels)
	stillFailing := make([]string, 0)
	for _, out := range outcomes {
		if !out.OK {
			stillFailing = append(stillFailing, out.Channel)
			log.Printf("[worker] channel=%s order=%s still failing: %s", out.Channel, order.OrderNumber, out.Err)
		}
	}
	if len(stillFailing) > 0 {
		return fmt.Errorf("order=%s channels still failing: %s", order.OrderNumber, strings.Join(stillFailing, ","))
	}

	log.Printf("[worker] delivered order=%s", order.OrderNumber)
	return nil
}
