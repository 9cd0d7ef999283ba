package booking

import (
	"context"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

type LookupBookingByToken struct {
	repo domain.Repository
}

func NewLookupBookingByToken(repo domain.Repository) *LookupBookingByToken {
	return &LookupBookingByToken{repo: repo}
}

// Execute is a pure read: repeated calls return the same data absent an
// intervening mutation.
func (uc *LookupBookingByToken) Execute(
	ctx context.Context,
	uid string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByUID(ctx, uid)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	return b, nil
}
