package waitlist

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistEntryResponse struct {
	ID          uuid.UUID  `json:"id"`
	SalonID     uuid.UUID  `json:"salon_id"`
	SalonName   string     `json:"salon_name,omitempty"`
	WindowStart time.Time  `json:"window_start"`
	WindowEnd   time.Time  `json:"window_end"`
	Status      Status     `json:"status"`
	Preferences JSONMap    `json:"preferences,omitempty"`
	JoinedAt    time.Time  `json:"joined_at"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (e *WaitlistEntry) ToResponse(salonName string) WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:          e.ID,
		SalonID:     e.SalonID,
		SalonName:   salonName,
		WindowStart: e.WindowStart,
		WindowEnd:   e.WindowEnd,
		Status:      e.Status,
		Preferences: e.Preferences,
		JoinedAt:    e.CreatedAt,
		NotifiedAt:  e.NotifiedAt,
		ExpiresAt:   e.ExpiresAt,
	}
}
