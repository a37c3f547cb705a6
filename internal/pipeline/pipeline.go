// Package pipeline implements the order intake flow: replay check, validate,
// mint identifiers, persist at-most-once, fan out notifications, respond.
// It is parameterized over abstract store and notification collaborators so
// one flow serves every hosting target.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/hikstore/order-intake/internal/idempotency"
	"github.com/hikstore/order-intake/internal/notify"
	"github.com/hikstore/order-intake/internal/orders"
	"github.com/hikstore/order-intake/internal/validation"
)

// DefaultRetryBounds is how many identifier pairs are tried before a
// persistent collision fails the request.
const DefaultRetryBounds = 3

// OrderStore is the durable persistence collaborator.
type OrderStore interface {
	// Put persists the order atomically, claiming the idempotency record
	// when one is given. Returns orders.ErrNumberTaken on an order-number
	// collision and idempotency.ErrKeyClaimed on a duplicate key.
	Put(ctx context.Context, o *orders.Order, claim *idempotency.Record) error
	Get(ctx context.Context, orderNumber string) (*orders.Order, error)
}

// ReplayStore tracks idempotency keys and the identifier pair minted for them.
type ReplayStore interface {
	Get(ctx context.Context, key string) (*idempotency.Record, error)
	NewRecord(key, orderNumber, trackingNumber string) idempotency.Record
	MarkDone(ctx context.Context, key string) error
	MarkFailed(ctx context.Context, key, note string) error
}

// Notifier fans the order out to the configured channels.
type Notifier interface {
	Dispatch(ctx context.Context, o *orders.Order) []notify.Outcome
}

// Publisher enqueues retry messages for channels that failed during intake.
type Publisher interface {
	SendRetryMessage(ctx context.Context, body string, attributes map[string]string) error
}

// Recorder emits intake counters.
type Recorder interface {
	OrderAccepted(ctx context.Context)
	ValidationRejected(ctx context.Context)
	NotificationFailed(ctx context.Context, channel string)
}

// Validator normalizes a raw payload or rejects it with a field error.
type Validator interface {
	Validate(req *validation.OrderRequest) (*orders.Order, error)
}

// Generator mints an order number / tracking number pair.
type Generator interface {
	Generate() (orderNumber, trackingNumber string)
}

// Deps groups the pipeline's collaborators. Publisher and Metrics are
// optional; RetryBounds defaults to DefaultRetryBounds.
type Deps struct {
	Validator   Validator
	Generator   Generator
	Store       OrderStore
	Replays     ReplayStore
	Notifier    Notifier
	Publisher   Publisher
	Metrics     Recorder
	RetryBounds int
}

// Meta is request provenance attached by the transport layer.
type Meta struct {
	SourceIP       string
	UserAgent      string
	IdempotencyKey string
	CorrelationID  string
}

// Result is the pipeline's answer for an accepted (or replayed) order. The
// identifier pair is authoritative regardless of notification outcomes.
type Result struct {
	OrderNumber    string
	TrackingNumber string
	Replayed       bool
	Outcomes       []notify.Outcome
}

// Pipeline orchestrates order intake.
type Pipeline struct {
	deps    Deps
	nowFunc func() time.Time
}

// New builds a Pipeline. Validator, Generator, Store, Replays, and Notifier
// are required.
func New(deps Deps) *Pipeline {
	if deps.RetryBounds <= 0 {
		deps.RetryBounds = DefaultRetryBounds
	}
	return &Pipeline{
		deps:    deps,
		nowFunc: time.Now,
	}
}

// Intake runs one checkout payload through the full flow. Validation errors
// come back as *validation.FieldError; everything else that fails is a
// server fault. Once Store.Put acknowledges, the order is committed: nothing
// after that point, including a client disconnect, can roll it back.
func (p *Pipeline) Intake(ctx context.Context, req *validation.OrderRequest, meta Meta) (*Result, error) {
	key := meta.IdempotencyKey
	if key == "" {
		key = req.IdempotencyKey
	}

	// Step 1: idempotent replay short-circuit, before validation. A record
	// in any status carries the identifiers minted by the first attempt.
	if key != "" {
		rec, err := p.deps.Replays.Get(ctx, key)
		if err != nil {
			return nil, &StoreError{Op: "replay lookup", Err: err}
		}
		if rec != nil {
			log.Printf("[intake] replay key=%s order=%s corr=%s", key, rec.OrderNumber, meta.CorrelationID)
			return &Result{
				OrderNumber:    rec.OrderNumber,
				TrackingNumber: rec.TrackingNumber,
				Replayed:       true,
			}, nil
		}
	}

	// Step 2: validate and normalize.
	order, err := p.deps.Validator.Validate(req)
	if err != nil {
		if p.deps.Metrics != nil {
			p.deps.Metrics.ValidationRejected(ctx)
		}
		return nil, err
	}
	order.SourceIP = meta.SourceIP
	order.UserAgent = meta.UserAgent
	order.CreatedAt = p.nowFunc().UTC()

	// Step 3: mint identifiers and persist. Only an order-number collision
	// regenerates the pair; any other failure surfaces as a server error
	// because its outcome is unknown and must not be blindly retried.
	persisted := false
	for attempt := 0; attempt < p.deps.RetryBounds; attempt++ {
		order.OrderNumber, order.TrackingNumber = p.deps.Generator.Generate()

		var claim *idempotency.Record
		if key != "" {
			rec := p.deps.Replays.NewRecord(key, order.OrderNumber, order.TrackingNumber)
			claim = &rec
		}

		err = p.deps.Store.Put(ctx, order, claim)
		if err == nil {
			persisted = true
			break
		}
		if errors.Is(err, orders.ErrNumberTaken) {
			log.Printf("[intake] order number collision, attempt %d corr=%s", attempt+1, meta.CorrelationID)
			continue
		}
		if errors.Is(err, idempotency.ErrKeyClaimed) {
			// lost a race with a concurrent duplicate; answer with its pair
			rec, getErr := p.deps.Replays.Get(ctx, key)
			if getErr != nil || rec == nil {
				return nil, &StoreError{Op: "claim race lookup", Err: err}
			}
			return &Result{
				OrderNumber:    rec.OrderNumber,
				TrackingNumber: rec.TrackingNumber,
				Replayed:       true,
			}, nil
		}
		return nil, &StoreError{Op: "put", Err: err}
	}
	if !persisted {
		return nil, ErrConflictExhausted
	}

	if p.deps.Metrics != nil {
		p.deps.Metrics.OrderAccepted(ctx)
	}

	// Persistence is the commit point: notifications and bookkeeping run on
	// a context that survives a client disconnect.
	dctx := context.WithoutCancel(ctx)

	// Step 4: notify, best-effort. The same identifier pair is used for any
	// later retry; it is never regenerated past this point.
	outcomes := p.deps.Notifier.Dispatch(dctx, order)
	failed := make([]string, 0)
	for _, out := range outcomes {
		if out.OK {
			continue
		}
		failed = append(failed, out.Channel)
		log.Printf("[intake] notification failed channel=%s order=%s err=%s", out.Channel, order.OrderNumber, out.Err)
		if p.deps.Metrics != nil {
			p.deps.Metrics.NotificationFailed(dctx, out.Channel)
		}
	}

	if len(failed) > 0 && p.deps.Publisher != nil {
		msg := notify.RetryMessage{
			OrderNumber:   order.OrderNumber,
			Channels:      failed,
			CorrelationID: meta.CorrelationID,
		}
		body, _ := json.Marshal(msg)
		attrs := map[string]string{
			"order_number":   order.OrderNumber,
			"correlation_id": meta.CorrelationID,
		}
		if err := p.deps.Publisher.SendRetryMessage(dctx, string(body), attrs); err != nil {
			log.Printf("[intake] enqueue retry failed order=%s err=%v", order.OrderNumber, err)
		}
	}

	if key != "" {
		if len(failed) == 0 {
			if err := p.deps.Replays.MarkDone(dctx, key); err != nil {
				log.Printf("[intake] mark done failed key=%s err=%v", key, err)
			}
		} else {
			note := "channels failed: " + strings.Join(failed, ",")
			if err := p.deps.Replays.MarkFailed(dctx, key, note); err != nil {
				log.Printf("[intake] mark failed failed key=%s err=%v", key, err)
			}
		}
	}

	// Step 5: respond with the authoritative pair.
	return &Result{
		OrderNumber:    order.OrderNumber,
		TrackingNumber: order.TrackingNumber,
		Outcomes:       outcomes,
	}, nil
}
