package waitlist

import "time"

type JoinWaitlistRequest struct {
	SalonID     string    `json:"salon_id" binding:"required,uuid"`
	WindowStart time.Time `json:"window_start" binding:"required"`
	WindowEnd   time.Time `json:"window_end" binding:"required"`
	Preferences JSONMap   `json:"preferences,omitempty"`
}
