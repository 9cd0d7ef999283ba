package models

import "time"

type EventType struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_event_types_user_slug" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title       string `gorm:"size:100;not null" json:"title"`
	Slug        string `gorm:"size:100;not null;uniqueIndex:idx_event_types_user_slug" json:"slug"`
	Description string `gorm:"size:255" json:"description"`

	DurationMin    int    `gorm:"not null" json:"duration_min"`
	SchedulingType string `gorm:"size:20;default:'individual'" json:"scheduling_type"`
	LocationType   string `gorm:"size:20;default:'none'" json:"location_type"`
	LocationValue  string `gorm:"size:255" json:"location_value"`

	// Nil falls back to the host's default schedule.
	AvailabilityScheduleID *uint `json:"availability_schedule_id"`

	MinNoticeMin    int  `gorm:"default:0" json:"min_notice_min"`
	MaxFutureDays   int  `gorm:"default:60" json:"max_future_days"`
	SlotIntervalMin *int `json:"slot_interval_min"`
	BufferBeforeMin int  `gorm:"default:0" json:"buffer_before_min"`
	BufferAfterMin  int  `gorm:"default:0" json:"buffer_after_min"`

	RequiresConfirmation bool `gorm:"default:false" json:"requires_confirmation"`
	Active               bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
