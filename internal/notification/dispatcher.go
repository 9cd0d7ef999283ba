package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
)

type Event struct {
	DispatchID string
	Type       string
	BookingID  uint
	Recipient  string
}

// Sender delivers one notification. Delivery mechanics live behind this
// interface; the engine only cares that dispatch never blocks a booking.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// Dispatcher is the fire-and-forget boundary. Events go onto a buffered queue
// and a worker drains it with its own context, so cancelling the caller of a
// booking operation cannot cancel an already-enqueued notification. A full
// queue drops the event; notifications never break the API.
type Dispatcher struct {
	sender  Sender
	queue   chan Event
	timeout time.Duration
	log     zerolog.Logger
	done    chan struct{}
}

func NewDispatcher(sender Sender, queueSize int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Event, queueSize),
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, ev); err != nil {
			d.log.Warn().
				Err(err).
				Str("dispatch_id", ev.DispatchID).
				Str("type", ev.Type).
				Uint("booking_id", ev.BookingID).
				Msg("notification delivery failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.DispatchID == "" {
		ev.DispatchID = uuid.NewString()
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("type", ev.Type).
			Uint("booking_id", ev.BookingID).
			Msg("notification queue full, dropping event")
	}
}

// Close stops accepting events and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
