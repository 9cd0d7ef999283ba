package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/models"
)

type CompleteBooking struct {
	repo domain.Repository
}

func NewCompleteBooking(repo domain.Repository) *CompleteBooking {
	return &CompleteBooking{repo: repo}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*models.Booking, error) {

	now := time.Now().UTC()
	return uc.repo.TransitionByHost(ctx, bookingID, hostID, domain.StatusUpdate{
		To:   domain.StatusCompleted,
		From: []domain.Status{domain.StatusConfirmed},
		Fields: map[string]any{
			"completed_at": now,
		},
	})
}
