package models

import "time"

// User is a host: the owner of event types whose calendar gets booked.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Slug         string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone     string `gorm:"size:64;default:'UTC'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
