package models

import "time"

// AvailabilityRule is one availability range of a schedule. RuleType selects
// the variant: "weekly" rules carry DayOfWeek (0 = Sunday), "date_override"
// rules carry SpecificDate and replace the weekly rules for that date.
type AvailabilityRule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ScheduleID uint `gorm:"index" json:"schedule_id"`

	RuleType     string     `gorm:"size:20;not null" json:"rule_type"`
	DayOfWeek    *int       `json:"day_of_week"`
	SpecificDate *time.Time `gorm:"type:date" json:"specific_date"`

	// Local wall-clock "HH:MM" in the schedule timezone.
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	// An override with IsAvailable=false closes the date entirely.
	IsAvailable bool `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
}
