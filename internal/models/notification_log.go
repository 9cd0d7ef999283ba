package models

import "time"

type NotificationLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DispatchID string `gorm:"size:36;index" json:"dispatch_id"`
	BookingID  uint   `gorm:"index" json:"booking_id"`

	Type      string `gorm:"size:50;not null" json:"type"`
	Recipient string `gorm:"size:100" json:"recipient"`
	Error     string `gorm:"size:500" json:"error"`

	CreatedAt time.Time `json:"created_at"`
}
