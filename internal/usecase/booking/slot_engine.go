package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

// resolveSchedule picks the schedule an event type books against: its own,
// or the host's default when none is set.
func resolveSchedule(
	ctx context.Context,
	repo domain.Repository,
	et *models.EventType,
) (*models.AvailabilitySchedule, error) {

	if et.AvailabilityScheduleID != nil {
		sched, err := repo.GetScheduleByID(ctx, *et.AvailabilityScheduleID)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeScheduleNotFound)
		}
		return sched, nil
	}

	sched, err := repo.GetDefaultSchedule(ctx, et.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeScheduleNotFound)
	}
	return sched, nil
}

func slotOptions(et *models.EventType) domain.SlotOptions {
	opts := domain.SlotOptions{
		Duration:      time.Duration(et.DurationMin) * time.Minute,
		MinNotice:     time.Duration(et.MinNoticeMin) * time.Minute,
		MaxFutureDays: et.MaxFutureDays,
		BufferBefore:  time.Duration(et.BufferBeforeMin) * time.Minute,
		BufferAfter:   time.Duration(et.BufferAfterMin) * time.Minute,
	}
	if et.SlotIntervalMin != nil && *et.SlotIntervalMin > 0 {
		opts.Interval = time.Duration(*et.SlotIntervalMin) * time.Minute
	}
	return opts
}

// daySlots computes the valid candidates for one calendar day. day must be
// midnight of that date in the schedule's location. ignoreBookingID excludes
// one booking from the busy set; a reschedule may land on the interval its
// own predecessor still holds.
func daySlots(
	ctx context.Context,
	repo domain.Repository,
	et *models.EventType,
	sched *models.AvailabilitySchedule,
	day time.Time,
	now time.Time,
	ignoreBookingID *uint,
) ([]domain.TimeSlot, error) {

	open, err := domain.Resolve(sched.Rules, day)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}

	dayEnd := day.AddDate(0, 0, 1)

	// Fetch a day of margin on both sides so buffers of neighbouring bookings
	// reach into this day's candidates.
	existing, err := repo.ListActiveBookings(
		ctx,
		et.UserID,
		day.AddDate(0, 0, -1),
		dayEnd.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	// Buffered bounds are frozen on the row at creation, so the busy set
	// agrees with what the conflict guard enforces.
	busy := make([]domain.Interval, 0, len(existing))
	for _, b := range existing {
		if ignoreBookingID != nil && b.ID == *ignoreBookingID {
			continue
		}
		busy = append(busy, domain.Interval{
			Start: b.BufferedStart,
			End:   b.BufferedEnd,
		})
	}

	return domain.GenerateSlots(
		open,
		slotOptions(et),
		busy,
		now,
		domain.Interval{Start: day, End: dayEnd},
	), nil
}
