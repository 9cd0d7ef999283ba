package notification

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/slotwise/scheduling-api/internal/models"
)

// LogSender records every dispatched notification and logs it. Rendering and
// transport of the actual email/SMS belong to an external collaborator; this
// sender is the durable trace the engine keeps either way.
type LogSender struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLogSender(db *gorm.DB, log zerolog.Logger) *LogSender {
	return &LogSender{db: db, log: log}
}

func (s *LogSender) Send(ctx context.Context, ev Event) error {
	entry := models.NotificationLog{
		DispatchID: ev.DispatchID,
		BookingID:  ev.BookingID,
		Type:       ev.Type,
		Recipient:  ev.Recipient,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	s.log.Info().
		Str("dispatch_id", ev.DispatchID).
		Str("type", ev.Type).
		Uint("booking_id", ev.BookingID).
		Msg("notification dispatched")

	return nil
}
