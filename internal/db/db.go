package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/slotwise/scheduling-api/internal/config"
	"github.com/slotwise/scheduling-api/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.AvailabilitySchedule{},
		&models.AvailabilityRule{},
		&models.EventType{},
		&models.Booking{},
		&models.BookingAttendee{},
		&models.NotificationLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	// Storage-level backstop for the overlap invariant: no two active
	// bookings of one host may hold intersecting buffer-expanded intervals.
	// Ranging over the stored buffered columns makes the constraint catch
	// raw-disjoint bookings whose buffers collide, including two inserts
	// committing concurrently.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(hostNoOverlapDDL)

	return db
}

const hostNoOverlapDDL = `
    DO $$ BEGIN
        ALTER TABLE bookings
            ADD CONSTRAINT bookings_host_no_overlap
            EXCLUDE USING gist (
                host_id WITH =,
                tstzrange(buffered_start, buffered_end) WITH &&
            )
            WHERE (status IN ('pending', 'confirmed'));
    EXCEPTION
        WHEN duplicate_object THEN NULL;
        WHEN duplicate_table THEN NULL;
    END $$;
`
