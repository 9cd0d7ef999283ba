package booking

import (
	"context"
	"sync"
	"time"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

// fakeRepo is an in-memory Repository. The mutex around CreateBooking mirrors
// the row locking of the real store: the conflict re-check and the insert are
// one atomic unit, which is exactly what the race tests exercise.
type fakeRepo struct {
	mu sync.Mutex

	hosts      map[uint]*models.User
	eventTypes map[uint]*models.EventType
	schedules  map[uint]*models.AvailabilitySchedule

	bookings  map[uint]*models.Booking
	attendees map[uint][]models.BookingAttendee
	nextID    uint
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hosts:      make(map[uint]*models.User),
		eventTypes: make(map[uint]*models.EventType),
		schedules:  make(map[uint]*models.AvailabilitySchedule),
		bookings:   make(map[uint]*models.Booking),
		attendees:  make(map[uint][]models.BookingAttendee),
		nextID:     1,
	}
}

func notFound() error { return httperr.ErrBusiness(httperr.CodeBookingNotFound) }

func (r *fakeRepo) GetHostByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hosts[id]; ok {
		out := *h
		return &out, nil
	}
	return nil, notFound()
}

func (r *fakeRepo) GetHostBySlug(_ context.Context, slug string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hosts {
		if h.Slug == slug {
			out := *h
			return &out, nil
		}
	}
	return nil, notFound()
}

func (r *fakeRepo) GetEventTypeByID(_ context.Context, id uint) (*models.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if et, ok := r.eventTypes[id]; ok {
		out := *et
		return &out, nil
	}
	return nil, notFound()
}

func (r *fakeRepo) GetEventTypeBySlug(_ context.Context, hostID uint, slug string) (*models.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, et := range r.eventTypes {
		if et.UserID == hostID && et.Slug == slug {
			out := *et
			return &out, nil
		}
	}
	return nil, notFound()
}

func (r *fakeRepo) GetScheduleByID(_ context.Context, id uint) (*models.AvailabilitySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.schedules[id]; ok {
		out := *s
		return &out, nil
	}
	return nil, notFound()
}

func (r *fakeRepo) GetDefaultSchedule(_ context.Context, userID uint) (*models.AvailabilitySchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schedules {
		if s.UserID == userID && s.IsDefault {
			out := *s
			return &out, nil
		}
	}
	return nil, notFound()
}

func (r *fakeRepo) ListActiveBookings(_ context.Context, hostID uint, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.HostID != hostID || !isActive(b.Status) {
			continue
		}
		if b.BufferedStart.Before(end) && start.Before(b.BufferedEnd) {
			cp := *b
			if et, ok := r.eventTypes[b.EventTypeID]; ok {
				cp.EventType = *et
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(
	_ context.Context,
	b *models.Booking,
	attendees []models.BookingAttendee,
	bufferedStart time.Time,
	bufferedEnd time.Time,
	supersedesID *uint,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if supersedesID != nil {
		prev, ok := r.bookings[*supersedesID]
		if !ok || !isActive(prev.Status) {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}
		prev.Status = string(domain.StatusRescheduled)
	}

	// Conflicts compare stored buffered intervals, like the exclusion
	// constraint in the real store.
	b.BufferedStart = bufferedStart.UTC()
	b.BufferedEnd = bufferedEnd.UTC()

	buffered := domain.Interval{Start: b.BufferedStart, End: b.BufferedEnd}
	for _, other := range r.bookings {
		if other.HostID != b.HostID || !isActive(other.Status) {
			continue
		}
		iv := domain.Interval{Start: other.BufferedStart, End: other.BufferedEnd}
		if buffered.Overlaps(iv) {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}
	}

	b.ID = r.nextID
	r.nextID++

	stored := *b
	r.bookings[b.ID] = &stored
	r.attendees[b.ID] = attendees
	return nil
}

func (r *fakeRepo) GetBookingForHost(_ context.Context, bookingID, hostID uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[bookingID]; ok && b.HostID == hostID {
		return r.bookingCopy(b), nil
	}
	return nil, notFound()
}

func (r *fakeRepo) GetBookingByUID(_ context.Context, uid string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.UID == uid {
			return r.bookingCopy(b), nil
		}
	}
	return nil, notFound()
}

func (r *fakeRepo) TransitionByHost(_ context.Context, bookingID, hostID uint, upd domain.StatusUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok || b.HostID != hostID {
		return nil, notFound()
	}
	return r.apply(b, upd)
}

func (r *fakeRepo) TransitionByUID(_ context.Context, uid string, upd domain.StatusUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.UID == uid {
			return r.apply(b, upd)
		}
	}
	return nil, notFound()
}

func (r *fakeRepo) ListBookingsForHost(_ context.Context, hostID uint, start, end time.Time, statuses []string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.HostID != hostID {
			continue
		}
		if !b.StartTime.Before(end) || !start.Before(b.EndTime) {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, b.Status) {
			continue
		}
		cp := *b
		if et, ok := r.eventTypes[b.EventTypeID]; ok {
			cp.EventType = *et
		}
		out = append(out, cp)
	}
	return out, nil
}

// apply mirrors the guarded-UPDATE semantics of the real store, including
// the zero-rows disambiguation for transitions already applied.
func (r *fakeRepo) apply(b *models.Booking, upd domain.StatusUpdate) (*models.Booking, error) {
	if !contains(statusStrings(upd.From), b.Status) {
		if b.Status == string(upd.To) {
			return r.bookingCopy(b), nil
		}
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	b.Status = string(upd.To)
	for k, v := range upd.Fields {
		switch k {
		case "cancelled_by":
			b.CancelledBy = v.(string)
		case "cancellation_reason":
			b.CancellationReason = v.(string)
		case "cancelled_at":
			at := v.(time.Time)
			b.CancelledAt = &at
		case "completed_at":
			at := v.(time.Time)
			b.CompletedAt = &at
		}
	}
	return r.bookingCopy(b), nil
}

func (r *fakeRepo) bookingCopy(b *models.Booking) *models.Booking {
	cp := *b
	if et, ok := r.eventTypes[b.EventTypeID]; ok {
		cp.EventType = *et
	}
	if h, ok := r.hosts[b.HostID]; ok {
		cp.Host = *h
	}
	return &cp
}

func isActive(status string) bool {
	return contains(domain.ActiveStatuses(), status)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func statusStrings(in []domain.Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
