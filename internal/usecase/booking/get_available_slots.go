package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/timezone"
)

const maxSlotRangeDays = 31

type AvailableSlotsInput struct {
	EventTypeID uint
	StartDate   string // YYYY-MM-DD
	EndDate     string // optional, defaults to StartDate
	ViewerTZ    string // optional, defaults to the schedule timezone
}

type DaySlots struct {
	Date  string            `json:"date"`
	Slots []domain.TimeSlot `json:"slots"`
}

type GetAvailableSlots struct {
	repo domain.Repository
}

func NewGetAvailableSlots(repo domain.Repository) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo}
}

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in AvailableSlotsInput,
) ([]DaySlots, error) {

	et, err := uc.repo.GetEventTypeByID(ctx, in.EventTypeID)
	if err != nil || !et.Active {
		return nil, httperr.ErrBusiness(httperr.CodeEventNotFound)
	}

	sched, err := resolveSchedule(ctx, uc.repo, et)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(sched.Timezone)
	if err != nil {
		return nil, err
	}

	viewerLoc := loc
	if in.ViewerTZ != "" {
		if viewerLoc, err = timezone.Location(in.ViewerTZ); err != nil {
			return nil, err
		}
	}

	start, err := time.ParseInLocation("2006-01-02", in.StartDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	end := start
	if in.EndDate != "" {
		if end, err = time.ParseInLocation("2006-01-02", in.EndDate, loc); err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}
	if end.Before(start) || end.Sub(start) > maxSlotRangeDays*24*time.Hour {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	now := time.Now()

	var out []DaySlots
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		slots, err := daySlots(ctx, uc.repo, et, sched, day, now, nil)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		// Presentation only: the instants stay canonical, the offset shown
		// follows the viewer.
		for i := range slots {
			slots[i].Start = slots[i].Start.In(viewerLoc)
			slots[i].End = slots[i].End.In(viewerLoc)
		}

		out = append(out, DaySlots{
			Date:  day.Format("2006-01-02"),
			Slots: slots,
		})
	}

	return out, nil
}
