package scheduling

import (
	"context"
	"time"

	"github.com/slotwise/scheduling-api/internal/models"
)

// StatusUpdate is one conditional lifecycle transition. The repository applies
// it as a single guarded UPDATE: credential check and expected-status check in
// the same atomic statement, so stale clients and racing actors lose cleanly.
type StatusUpdate struct {
	To     Status
	From   []Status
	Fields map[string]any
}

type Repository interface {
	// -------- Host --------
	GetHostByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetHostBySlug(
		ctx context.Context,
		slug string,
	) (*models.User, error)

	// -------- Event type --------
	GetEventTypeByID(
		ctx context.Context,
		id uint,
	) (*models.EventType, error)

	GetEventTypeBySlug(
		ctx context.Context,
		hostID uint,
		slug string,
	) (*models.EventType, error)

	// -------- Availability --------
	GetScheduleByID(
		ctx context.Context,
		id uint,
	) (*models.AvailabilitySchedule, error)

	GetDefaultSchedule(
		ctx context.Context,
		userID uint,
	) (*models.AvailabilitySchedule, error)

	// ListActiveBookings returns pending/confirmed bookings of the host whose
	// stored buffered interval touches [start, end).
	ListActiveBookings(
		ctx context.Context,
		hostID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (conflict guard) --------

	// CreateBooking re-checks the buffered-overlap invariant and inserts the
	// booking and its attendees as one atomic unit. bufferedStart/bufferedEnd
	// is the new interval already expanded by the event type's own buffers;
	// it is persisted on the row so later buffer edits cannot rewrite history.
	// supersedesID, when set, marks that booking rescheduled inside the same
	// transaction.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
		attendees []models.BookingAttendee,
		bufferedStart time.Time,
		bufferedEnd time.Time,
		supersedesID *uint,
	) error

	// -------- Booking (lifecycle) --------
	GetBookingForHost(
		ctx context.Context,
		bookingID uint,
		hostID uint,
	) (*models.Booking, error)

	GetBookingByUID(
		ctx context.Context,
		uid string,
	) (*models.Booking, error)

	TransitionByHost(
		ctx context.Context,
		bookingID uint,
		hostID uint,
		upd StatusUpdate,
	) (*models.Booking, error)

	TransitionByUID(
		ctx context.Context,
		uid string,
		upd StatusUpdate,
	) (*models.Booking, error)

	ListBookingsForHost(
		ctx context.Context,
		hostID uint,
		start time.Time,
		end time.Time,
		statuses []string,
	) ([]models.Booking, error)
}
