package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/notification"
	"github.com/slotwise/scheduling-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	EventTypeID uint

	InviteeName     string
	InviteeEmail    string
	InviteeTimezone string
	InviteeNotes    string

	Start time.Time
	End   time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	notify *notification.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	notify *notification.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {
	return uc.create(ctx, in, nil)
}

// create carries both the public booking path and the reschedule path;
// supersedesID is only set by the latter.
func (uc *CreateBooking) create(
	ctx context.Context,
	in CreateBookingInput,
	supersedesID *uint,
) (*models.Booking, error) {

	et, err := uc.repo.GetEventTypeByID(ctx, in.EventTypeID)
	if err != nil || !et.Active {
		return nil, httperr.ErrBusiness(httperr.CodeEventNotFound)
	}

	if in.InviteeName == "" || in.InviteeEmail == "" {
		return nil, httperr.ErrBusiness("invalid_invitee")
	}

	duration := time.Duration(et.DurationMin) * time.Minute
	if !in.End.Equal(in.Start.Add(duration)) {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	sched, err := resolveSchedule(ctx, uc.repo, et)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(sched.Timezone)
	if err != nil {
		return nil, err
	}

	inviteeTZ := in.InviteeTimezone
	if inviteeTZ == "" {
		inviteeTZ = sched.Timezone
	} else if !timezone.IsValid(inviteeTZ) {
		return nil, httperr.ErrBusiness("invalid_timezone")
	}

	// Recompute the candidate list at commit time. A stale client-side slot
	// cache must not buy a booking the engine would no longer offer.
	local := in.Start.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	slots, err := daySlots(ctx, uc.repo, et, sched, day, time.Now(), supersedesID)
	if err != nil {
		return nil, err
	}
	if !slotOffered(slots, in.Start, in.End) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotConflict)
	}

	uid, err := domain.NewBookingUID()
	if err != nil {
		return nil, err
	}

	host, err := uc.repo.GetHostByID(ctx, et.UserID)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		UID:             uid,
		EventTypeID:     et.ID,
		HostID:          et.UserID,
		InviteeName:     in.InviteeName,
		InviteeEmail:    in.InviteeEmail,
		InviteeTimezone: inviteeTZ,
		InviteeNotes:    in.InviteeNotes,
		StartTime:       in.Start.UTC(),
		EndTime:         in.End.UTC(),
		Status:          string(domain.InitialStatus(et.RequiresConfirmation)),
		RescheduledFrom: supersedesID,
	}

	attendees := []models.BookingAttendee{
		{UserID: &host.ID, Name: host.Name, Email: host.Email, Role: "host"},
		{Name: in.InviteeName, Email: in.InviteeEmail, Role: "invitee"},
	}

	opts := slotOptions(et)
	buffered := domain.Interval{Start: b.StartTime, End: b.EndTime}.
		Expand(opts.BufferBefore, opts.BufferAfter)

	if err := uc.repo.CreateBooking(
		ctx,
		b,
		attendees,
		buffered.Start,
		buffered.End,
		supersedesID,
	); err != nil {
		return nil, err
	}
	b.EventType = *et

	uc.notify.Dispatch(notification.Event{
		Type:      notification.TypeBookingConfirmation,
		BookingID: b.ID,
		Recipient: b.InviteeEmail,
	})

	return b, nil
}

func slotOffered(slots []domain.TimeSlot, start, end time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) && s.End.Equal(end) {
			return true
		}
	}
	return false
}
