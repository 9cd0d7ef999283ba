package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/notification"
)

type CancelBooking struct {
	repo   domain.Repository
	notify *notification.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	notify *notification.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	hostID uint,
	reason string,
) (*models.Booking, error) {

	now := time.Now().UTC()
	b, err := uc.repo.TransitionByHost(ctx, bookingID, hostID, domain.StatusUpdate{
		To:   domain.StatusCancelled,
		From: []domain.Status{domain.StatusPending, domain.StatusConfirmed},
		Fields: map[string]any{
			"cancelled_by":        domain.CancelledByHost,
			"cancellation_reason": reason,
			"cancelled_at":        now,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notification.Event{
		Type:      notification.TypeBookingCancellation,
		BookingID: b.ID,
		Recipient: b.InviteeEmail,
	})

	return b, nil
}
