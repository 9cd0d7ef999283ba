package dto

import "time"

type BookingListDTO struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	InviteeName  string    `json:"invitee_name"`
	InviteeEmail string    `json:"invitee_email"`
	EventTitle   string    `json:"event_title"`
}
