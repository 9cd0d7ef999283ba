package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

// RescheduleBookingByToken moves a booking to a new interval: a fresh booking
// pointing back via rescheduled_from, while the superseded one flips to the
// rescheduled label inside the same transaction as the conflict check.
type RescheduleBookingByToken struct {
	repo   domain.Repository
	create *CreateBooking
}

func NewRescheduleBookingByToken(
	repo domain.Repository,
	create *CreateBooking,
) *RescheduleBookingByToken {
	return &RescheduleBookingByToken{
		repo:   repo,
		create: create,
	}
}

func (uc *RescheduleBookingByToken) Execute(
	ctx context.Context,
	uid string,
	start time.Time,
	end time.Time,
) (*models.Booking, error) {

	prev, err := uc.repo.GetBookingByUID(ctx, uid)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	if err := domain.CanCancel(domain.Status(prev.Status)); err != nil {
		return nil, err
	}

	return uc.create.create(ctx, CreateBookingInput{
		EventTypeID:     prev.EventTypeID,
		InviteeName:     prev.InviteeName,
		InviteeEmail:    prev.InviteeEmail,
		InviteeTimezone: prev.InviteeTimezone,
		InviteeNotes:    prev.InviteeNotes,
		Start:           start,
		End:             end,
	}, &prev.ID)
}
