package notify

import (
	"context"

	"github.com/rs/zerolog"

	"invoice-transformer/internal/logger"
)

// Dispatcher decouples event publication from delivery. Publish never blocks;
// delivery errors are logged and swallowed so that notifier failures cannot
// leak back into the pipeline's outcome handling.
type Dispatcher struct {
	sink   Sink
	events chan Event
	done   chan struct{}
	log    zerolog.Logger
}

// NewDispatcher creates a dispatcher delivering to sink through a buffer of
// the given size. A buffer of 0 defaults to 64.
func NewDispatcher(sink Sink, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		log:    logger.WithComponent("notify"),
	}
}

// Publish queues an event for delivery. If the buffer is full the event is
// dropped with a warning; the caller is never blocked.
func (d *Dispatcher) Publish(ev Event) {
	select {
	case d.events <- ev:
	default:
		d.log.Warn().
			Str("event", ev.Kind()).
			Msg("Notification buffer full, event dropped")
	}
}

// Run consumes events until ctx is canceled, then drains whatever is already
// queued and closes. It is intended to run on its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case ev := <-d.events:
			d.deliver(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.events:
					d.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) deliver(ev Event) {
	if err := d.sink.Send(ev); err != nil {
		d.log.Error().
			Err(err).
			Str("event", ev.Kind()).
			Msg("Notification delivery failed")
	}
}

// NopSink discards every event. Used when notifications are disabled so the
// pipeline's publishing path stays identical either way.
type NopSink struct{}

// Send implements Sink.
func (NopSink) Send(Event) error { return nil }
