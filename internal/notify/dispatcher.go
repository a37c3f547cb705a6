package notify

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hikstore/order-intake/internal/orders"
)

// Dispatcher sends an order to every configured channel concurrently. Each
// channel gets its own timeout, the whole dispatch is bounded by an overall
// timeout, and one Outcome is returned per channel regardless of failures.
// No channel is retried within a single dispatch.
type Dispatcher struct {
	channels        []Channel
	channelTimeout  time.Duration
	dispatchTimeout time.Duration
}

// NewDispatcher builds a Dispatcher over the given channels.
func NewDispatcher(channels []Channel, channelTimeout, dispatchTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		channels:        channels,
		channelTimeout:  channelTimeout,
		dispatchTimeout: dispatchTimeout,
	}
}

// Dispatch sends to every configured channel and joins all outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, o *orders.Order) []Outcome {
	return d.DispatchTo(ctx, o, nil)
}

// DispatchTo sends to the named subset of channels (nil means all). Unknown
// names are skipped; outcome order follows configuration order so callers
// get a deterministic list.
func (d *Dispatcher) DispatchTo(ctx context.Context, o *orders.Order, names []string) []Outcome {
	selected := d.channels
	if names != nil {
		selected = make([]Channel, 0, len(names))
		for _, ch := range d.channels {
			if containsName(names, ch.Name()) {
				selected = append(selected, ch)
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, d.dispatchTimeout)
	defer cancel()

	outcomes := make([]Outcome, len(selected))
	var g errgroup.Group
	for i, ch := range selected {
		i, ch := i, ch
		g.Go(func() error {
			cctx, ccancel := context.WithTimeout(ctx, d.channelTimeout)
			defer ccancel()

			start := time.Now()
			err := ch.Send(cctx, o)
			out := Outcome{
				Channel:  ch.Name(),
				OK:       err == nil,
				Duration: time.Since(start),
			}
			if err != nil {
				out.Err = err.Error()
			}
			outcomes[i] = out
			// errors are carried in the outcome; never fail the group, a
			// broken channel must not abort its siblings
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Names returns the configured channel names in dispatch order.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.channels))
	for i, ch := range d.channels {
		names[i] = ch.Name()
	}
	return names
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
