package models

import "time"

// BookingAttendee denormalizes the participants of a booking (host plus
// invitee). Kept for multi-party extension, not load-bearing for conflicts.
type BookingAttendee struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	BookingID uint  `gorm:"index" json:"booking_id"`
	UserID    *uint `json:"user_id"`

	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Role  string `gorm:"size:10;not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}
