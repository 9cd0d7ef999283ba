package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Host
// --------------------------------------------------

func (r *BookingGormRepository) GetHostByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetHostBySlug(
	ctx context.Context,
	slug string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Event type
// --------------------------------------------------

func (r *BookingGormRepository) GetEventTypeByID(
	ctx context.Context,
	id uint,
) (*models.EventType, error) {

	var et models.EventType
	if err := r.db.WithContext(ctx).First(&et, id).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *BookingGormRepository) GetEventTypeBySlug(
	ctx context.Context,
	hostID uint,
	slug string,
) (*models.EventType, error) {

	var et models.EventType
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND slug = ?", hostID, slug).
		First(&et).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) GetScheduleByID(
	ctx context.Context,
	id uint,
) (*models.AvailabilitySchedule, error) {

	var sched models.AvailabilitySchedule
	if err := r.db.WithContext(ctx).
		Preload("Rules").
		First(&sched, id).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *BookingGormRepository) GetDefaultSchedule(
	ctx context.Context,
	userID uint,
) (*models.AvailabilitySchedule, error) {

	var sched models.AvailabilitySchedule
	if err := r.db.WithContext(ctx).
		Preload("Rules").
		Where("user_id = ? AND is_default = true", userID).
		First(&sched).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	hostID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"host_id = ? AND status IN ? AND buffered_start < ? AND buffered_end > ?",
			hostID, domain.ActiveStatuses(), end, start,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Booking (conflict guard)
// --------------------------------------------------

// CreateBooking holds the transactional boundary of the engine. The buffered
// interval is persisted on the row, so the conflict check and the btree_gist
// exclusion constraint both range over it: the locked re-check catches
// conflicts against committed rows, the constraint catches two inserts racing
// each other. Both paths surface the same slot_conflict code and the caller
// must re-query slots, never retry onto a different slot.
func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
	attendees []models.BookingAttendee,
	bufferedStart time.Time,
	bufferedEnd time.Time,
	supersedesID *uint,
) error {

	b.BufferedStart = bufferedStart.UTC()
	b.BufferedEnd = bufferedEnd.UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if supersedesID != nil {
			res := tx.Model(&models.Booking{}).
				Where(
					"id = ? AND host_id = ? AND status IN ?",
					*supersedesID, b.HostID, domain.ActiveStatuses(),
				).
				Update("status", string(domain.StatusRescheduled))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return httperr.ErrBusiness(httperr.CodeInvalidState)
			}
		}

		var held []uint
		if err := r.lockOverlapping(
			tx, b.HostID, b.BufferedStart, b.BufferedEnd,
		).Pluck("id", &held).Error; err != nil {
			return err
		}

		if len(held) > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}

		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return err
		}

		for i := range attendees {
			attendees[i].BookingID = b.ID
		}
		if len(attendees) > 0 {
			if err := tx.Create(&attendees).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	return err
}

// lockOverlapping builds the guard query: a row-locking select over the
// host's active bookings whose buffered interval intersects the candidate's.
// It fetches ids, not an aggregate; Postgres rejects FOR UPDATE on aggregate
// queries (SQLSTATE 0A000), so the counting happens in the caller.
func (r *BookingGormRepository) lockOverlapping(
	tx *gorm.DB,
	hostID uint,
	bufferedStart time.Time,
	bufferedEnd time.Time,
) *gorm.DB {

	return tx.Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("host_id = ? AND status IN ?", hostID, domain.ActiveStatuses()).
		Where(
			"buffered_start < ? AND buffered_end > ?",
			bufferedEnd, bufferedStart,
		)
}

// --------------------------------------------------
// Booking (lifecycle)
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingForHost(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*models.Booking, error) {

	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Preload("EventType").
		Where("id = ? AND host_id = ?", bookingID, hostID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingGormRepository) GetBookingByUID(
	ctx context.Context,
	uid string,
) (*models.Booking, error) {

	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Preload("EventType").
		Preload("Host").
		Preload("Attendees").
		Where("uid = ?", uid).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// TransitionByHost applies a guarded status update authorized by host
// identity. Zero affected rows gets disambiguated by a re-read: a booking
// already in the target state is reported as such, not as an error, so two
// actors racing the same transition both see a consistent outcome.
func (r *BookingGormRepository) TransitionByHost(
	ctx context.Context,
	bookingID uint,
	hostID uint,
	upd domain.StatusUpdate,
) (*models.Booking, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"id = ? AND host_id = ? AND status IN ?",
			bookingID, hostID, statusStrings(upd.From),
		).
		Updates(transitionFields(upd))
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return r.explainNoRows(ctx, upd, "id = ? AND host_id = ?", bookingID, hostID)
	}

	return r.GetBookingForHost(ctx, bookingID, hostID)
}

// TransitionByUID is the invitee path: the uid capability token is the whole
// credential, checked in the same UPDATE as the expected status.
func (r *BookingGormRepository) TransitionByUID(
	ctx context.Context,
	uid string,
	upd domain.StatusUpdate,
) (*models.Booking, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("uid = ? AND status IN ?", uid, statusStrings(upd.From)).
		Updates(transitionFields(upd))
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return r.explainNoRows(ctx, upd, "uid = ?", uid)
	}

	return r.GetBookingByUID(ctx, uid)
}

// explainNoRows distinguishes "no such booking / wrong credential" from
// "someone else already applied this transition". A wrong credential answers
// not_found either way; it never leaks whether the booking exists.
func (r *BookingGormRepository) explainNoRows(
	ctx context.Context,
	upd domain.StatusUpdate,
	query string,
	args ...any,
) (*models.Booking, error) {

	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("EventType").
		Where(query, args...).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}

	if domain.Status(booking.Status) == upd.To {
		return &booking, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
}

func (r *BookingGormRepository) ListBookingsForHost(
	ctx context.Context,
	hostID uint,
	start time.Time,
	end time.Time,
	statuses []string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("EventType").
		Where(
			"host_id = ? AND start_time >= ? AND start_time < ?",
			hostID, start, end,
		)

	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func statusStrings(ss []domain.Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func transitionFields(upd domain.StatusUpdate) map[string]any {
	fields := map[string]any{"status": string(upd.To)}
	for k, v := range upd.Fields {
		fields[k] = v
	}
	return fields
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
