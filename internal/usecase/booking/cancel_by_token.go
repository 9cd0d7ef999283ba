package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/notification"
)

// CancelBookingByToken is the invitee's sole self-service path. The uid is
// the whole credential; a wrong uid answers booking_not_found and mutates
// nothing, it never reveals whether some booking exists behind it.
type CancelBookingByToken struct {
	repo   domain.Repository
	notify *notification.Dispatcher
}

func NewCancelBookingByToken(
	repo domain.Repository,
	notify *notification.Dispatcher,
) *CancelBookingByToken {
	return &CancelBookingByToken{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CancelBookingByToken) Execute(
	ctx context.Context,
	uid string,
	reason string,
) (*models.Booking, error) {

	now := time.Now().UTC()
	b, err := uc.repo.TransitionByUID(ctx, uid, domain.StatusUpdate{
		To:   domain.StatusCancelled,
		From: []domain.Status{domain.StatusPending, domain.StatusConfirmed},
		Fields: map[string]any{
			"cancelled_by":        domain.CancelledByInvitee,
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
