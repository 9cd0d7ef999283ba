package booking

import (
	"context"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/models"
)

type ConfirmBooking struct {
	repo domain.Repository
}

func NewConfirmBooking(repo domain.Repository) *ConfirmBooking {
	return &ConfirmBooking{repo: repo}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*models.Booking, error) {

	return uc.repo.TransitionByHost(ctx, bookingID, hostID, domain.StatusUpdate{
		To:   domain.StatusConfirmed,
		From: []domain.Status{domain.StatusPending},
	})
}
