package models

import "time"

type AvailabilitySchedule struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Timezone  string `gorm:"size:64;not null" json:"timezone"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	Rules []AvailabilityRule `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"rules,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
