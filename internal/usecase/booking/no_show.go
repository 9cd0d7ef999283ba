package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

type MarkNoShow struct {
	repo domain.Repository
}

func NewMarkNoShow(repo domain.Repository) *MarkNoShow {
	return &MarkNoShow{repo: repo}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForHost(ctx, bookingID, hostID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	// No-show only makes sense for a meeting that already happened.
	if b.EndTime.After(time.Now()) {
		return nil, httperr.ErrBusiness("booking_not_past")
	}

	return uc.repo.TransitionByHost(ctx, bookingID, hostID, domain.StatusUpdate{
		To:   domain.StatusNoShow,
		From: []domain.Status{domain.StatusConfirmed},
	})
}
