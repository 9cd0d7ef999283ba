package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/dto"
)

type ListBookingsByRange struct {
	repo domain.Repository
}

func NewListBookingsByRange(repo domain.Repository) *ListBookingsByRange {
	return &ListBookingsByRange{repo: repo}
}

func (uc *ListBookingsByRange) Execute(
	ctx context.Context,
	hostID uint,
	start time.Time,
	end time.Time,
	statuses []string,
) ([]dto.BookingListDTO, error) {

	bookings, err := uc.repo.ListBookingsForHost(ctx, hostID, start, end, statuses)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			Status:       b.Status,
			InviteeName:  b.InviteeName,
			InviteeEmail: b.InviteeEmail,
			EventTitle:   b.EventType.Title,
		})
	}

	return out, nil
}
