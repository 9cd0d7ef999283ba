package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// UID is the invitee's capability token. Possession of it grants
	// self-service rights over exactly this booking, so it is generated with
	// crypto/rand and never reused as an internal identifier.
	UID string `gorm:"size:64;uniqueIndex;not null" json:"uid"`

	EventTypeID uint      `json:"event_type_id"`
	EventType   EventType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"event_type"`

	HostID uint `gorm:"index" json:"host_id"`
	Host   User `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	InviteeName     string `gorm:"size:100;not null" json:"invitee_name"`
	InviteeEmail    string `gorm:"size:100;not null" json:"invitee_email"`
	InviteeTimezone string `gorm:"size:64" json:"invitee_timezone"`
	InviteeNotes    string `gorm:"size:1000" json:"invitee_notes"`

	// Absolute instants, stored in UTC.
	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// The interval expanded by the event type's buffers, frozen at creation.
	// The host-overlap exclusion constraint ranges over these columns, so the
	// invariant holds even when buffers on the event type change later.
	BufferedStart time.Time `gorm:"index" json:"-"`
	BufferedEnd   time.Time `json:"-"`

	Status             string `gorm:"size:20;default:'pending'" json:"status"`
	CancellationReason string `gorm:"size:500" json:"cancellation_reason"`
	CancelledBy        string `gorm:"size:10" json:"cancelled_by"`

	// Set on the replacement booking when a reschedule occurs.
	RescheduledFrom *uint `json:"rescheduled_from"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Attendees []BookingAttendee `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
