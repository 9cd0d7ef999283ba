package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/notification"
)

func (f *fixture) book(t *testing.T, start time.Time) *models.Booking {
	t.Helper()
	b, err := NewCreateBooking(f.repo, f.notify).Execute(context.Background(), f.input(start))
	require.NoError(t, err)
	return b
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	f.et.RequiresConfirmation = true
	uc := NewConfirmBooking(f.repo)

	b := f.book(t, f.day.Add(10*time.Hour))
	require.Equal(t, string(domain.StatusPending), b.Status)

	out, err := uc.Execute(context.Background(), b.ID, f.host.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), out.Status)

	// Confirming twice reports the settled state instead of failing.
	out, err = uc.Execute(context.Background(), b.ID, f.host.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), out.Status)

	// The wrong host never sees the booking.
	_, err = uc.Execute(context.Background(), b.ID, 42)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound), "got %v", err)
}

func TestCancelBooking_ByHost(t *testing.T) {
	f := newFixture(t)
	uc := NewCancelBooking(f.repo, f.notify)

	b := f.book(t, f.day.Add(10*time.Hour))

	out, err := uc.Execute(context.Background(), b.ID, f.host.ID, "double booked")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, domain.CancelledByHost, out.CancelledBy)
	assert.Equal(t, "double booked", out.CancellationReason)
	require.NotNil(t, out.CancelledAt)

	// Cancelling again settles on the same state instead of failing.
	out, err = uc.Execute(context.Background(), b.ID, f.host.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, "double booked", out.CancellationReason)

	f.drain()
	events := f.sender.all()
	require.Len(t, events, 3)
	assert.Equal(t, notification.TypeBookingConfirmation, events[0].Type)
	assert.Equal(t, notification.TypeBookingCancellation, events[1].Type)
}

func TestCancelBooking_FreesTheSlot(t *testing.T) {
	f := newFixture(t)
	start := f.day.Add(10 * time.Hour)

	b := f.book(t, start)
	_, err := NewCancelBooking(f.repo, f.notify).Execute(context.Background(), b.ID, f.host.ID, "")
	require.NoError(t, err)

	// The interval is bookable again.
	f.book(t, start)
}

func TestCancelBookingByToken(t *testing.T) {
	f := newFixture(t)
	uc := NewCancelBookingByToken(f.repo, f.notify)

	b := f.book(t, f.day.Add(10*time.Hour))

	out, err := uc.Execute(context.Background(), b.UID, "can no longer make it")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, domain.CancelledByInvitee, out.CancelledBy)
	assert.Equal(t, "can no longer make it", out.CancellationReason)
}

func TestCancelBookingByToken_WrongToken(t *testing.T) {
	f := newFixture(t)
	uc := NewCancelBookingByToken(f.repo, f.notify)

	b := f.book(t, f.day.Add(10*time.Hour))

	_, err := uc.Execute(context.Background(), "not-the-token", "")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound), "got %v", err)

	// The booking is untouched.
	got, err := f.repo.GetBookingByUID(context.Background(), b.UID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	assert.Empty(t, got.CancelledBy)
}

func TestLookupBookingByToken(t *testing.T) {
	f := newFixture(t)
	uc := NewLookupBookingByToken(f.repo)

	b := f.book(t, f.day.Add(10*time.Hour))

	first, err := uc.Execute(context.Background(), b.UID)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), b.UID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.StartTime, second.StartTime)

	_, err = uc.Execute(context.Background(), "unknown")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound), "got %v", err)
}

func TestRescheduleBookingByToken(t *testing.T) {
	f := newFixture(t)
	create := NewCreateBooking(f.repo, f.notify)
	uc := NewRescheduleBookingByToken(f.repo, create)

	oldStart := f.day.Add(10 * time.Hour)
	newStart := f.day.Add(14 * time.Hour)
	b := f.book(t, oldStart)

	moved, err := uc.Execute(context.Background(), b.UID, newStart, newStart.Add(30*time.Minute))
	require.NoError(t, err)

	assert.NotEqual(t, b.ID, moved.ID)
	assert.NotEqual(t, b.UID, moved.UID)
	assert.Equal(t, newStart, moved.StartTime)
	require.NotNil(t, moved.RescheduledFrom)
	assert.Equal(t, b.ID, *moved.RescheduledFrom)
	assert.Equal(t, b.InviteeEmail, moved.InviteeEmail)

	// The superseded booking no longer holds its slot.
	prev, err := f.repo.GetBookingByUID(context.Background(), b.UID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRescheduled), prev.Status)
	f.book(t, oldStart)
}

func TestRescheduleBookingByToken_SameSlot(t *testing.T) {
	f := newFixture(t)
	create := NewCreateBooking(f.repo, f.notify)
	uc := NewRescheduleBookingByToken(f.repo, create)

	start := f.day.Add(10 * time.Hour)
	b := f.book(t, start)

	// The booking's own interval does not conflict with its replacement.
	moved, err := uc.Execute(context.Background(), b.UID, start, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, start, moved.StartTime)
}

func TestRescheduleBookingByToken_TerminalState(t *testing.T) {
	f := newFixture(t)
	create := NewCreateBooking(f.repo, f.notify)
	uc := NewRescheduleBookingByToken(f.repo, create)

	b := f.book(t, f.day.Add(10*time.Hour))
	_, err := NewCancelBookingByToken(f.repo, f.notify).Execute(context.Background(), b.UID, "")
	require.NoError(t, err)

	newStart := f.day.Add(14 * time.Hour)
	_, err = uc.Execute(context.Background(), b.UID, newStart, newStart.Add(30*time.Minute))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState), "got %v", err)
}

func TestCompleteBooking(t *testing.T) {
	f := newFixture(t)
	uc := NewCompleteBooking(f.repo)

	b := f.book(t, f.day.Add(10*time.Hour))

	out, err := uc.Execute(context.Background(), b.ID, f.host.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), out.Status)
	require.NotNil(t, out.CompletedAt)

	// Completed is terminal.
	_, err = NewCancelBooking(f.repo, f.notify).Execute(context.Background(), b.ID, f.host.ID, "")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState), "got %v", err)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	uc := NewMarkNoShow(f.repo)

	// A meeting still in the future cannot be a no-show.
	future := f.book(t, f.day.Add(10*time.Hour))
	_, err := uc.Execute(context.Background(), future.ID, f.host.ID)
	assert.True(t, httperr.IsBusiness(err, "booking_not_past"), "got %v", err)

	// Seed a confirmed booking that already ended.
	past := &models.Booking{
		ID:            100,
		UID:           "past-booking-token",
		EventTypeID:   f.et.ID,
		HostID:        f.host.ID,
		StartTime:     time.Now().UTC().Add(-2 * time.Hour),
		EndTime:       time.Now().UTC().Add(-90 * time.Minute),
		BufferedStart: time.Now().UTC().Add(-2 * time.Hour),
		BufferedEnd:   time.Now().UTC().Add(-90 * time.Minute),
		Status:        string(domain.StatusConfirmed),
	}
	f.repo.bookings[past.ID] = past

	out, err := uc.Execute(context.Background(), past.ID, f.host.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), out.Status)
}

func TestListBookingsByRange(t *testing.T) {
	f := newFixture(t)
	uc := NewListBookingsByRange(f.repo)

	a := f.book(t, f.day.Add(10*time.Hour))
	b := f.book(t, f.day.Add(14*time.Hour))
	_, err := NewCancelBooking(f.repo, f.notify).Execute(context.Background(), b.ID, f.host.ID, "")
	require.NoError(t, err)

	list, err := uc.Execute(context.Background(), f.host.ID, f.day, f.day.AddDate(0, 0, 1), nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = uc.Execute(context.Background(), f.host.ID, f.day, f.day.AddDate(0, 0, 1), []string{"confirmed"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "Intro call", list[0].EventTitle)
	assert.Equal(t, "confirmed", list[0].Status)

	// Out of range.
	list, err = uc.Execute(context.Background(), f.host.ID, f.day.AddDate(0, 0, 2), f.day.AddDate(0, 0, 3), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
