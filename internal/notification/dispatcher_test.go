package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSender) Send(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("delivery down")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, time.Second, zerolog.Nop())

	d.Dispatch(Event{Type: TypeBookingConfirmation, BookingID: 1, Recipient: "a@example.com"})
	d.Dispatch(Event{Type: TypeBookingCancellation, BookingID: 1, Recipient: "a@example.com"})
	d.Close()

	require.Equal(t, 2, sender.count())
	assert.Equal(t, TypeBookingConfirmation, sender.events[0].Type)
	assert.Equal(t, TypeBookingCancellation, sender.events[1].Type)
}

func TestDispatcher_AssignsDispatchID(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, time.Second, zerolog.Nop())

	d.Dispatch(Event{Type: TypeBookingConfirmation, BookingID: 7})
	d.Close()

	require.Equal(t, 1, sender.count())
	assert.NotEmpty(t, sender.events[0].DispatchID)
}

func TestDispatcher_SenderFailureDoesNotPropagate(t *testing.T) {
	sender := &recordingSender{fail: true}
	d := NewDispatcher(sender, 8, time.Second, zerolog.Nop())

	// Dispatch never surfaces delivery errors to the caller.
	d.Dispatch(Event{Type: TypeBookingConfirmation, BookingID: 1})
	d.Close()

	assert.Equal(t, 0, sender.count())
}
