package notifications

import (
	"context"

	"github.com/google/uuid"
)

// WaitlistServiceAdapter implements the waitlist.NotificationService
// interface on top of the queued notification system.
type WaitlistServiceAdapter struct {
	service NotificationService
}

// NewWaitlistServiceAdapter creates a new adapter for waitlist notifications
func NewWaitlistServiceAdapter(service NotificationService) *WaitlistServiceAdapter {
	return &WaitlistServiceAdapter{
		service: service,
	}
}

// SendWaitlistNotification implements the waitlist.NotificationService interface
func (w *WaitlistServiceAdapter) SendWaitlistNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
	salonID, waitlistEntryID uuid.UUID, notificationType string,
	templateData map[string]interface{}) error {

	var notType NotificationType
	switch notificationType {
	case "WAITLIST_SLOT_AVAILABLE":
		notType = NotificationTypeWaitlistSlotAvailable
	case "WAITLIST_EXPIRED":
		notType = NotificationTypeWaitlistExpired
	default:
		notType = NotificationTypeWaitlistSlotAvailable
	}

	return w.service.SendWaitlistNotification(ctx, userID, email, name, phone, salonID, waitlistEntryID, notType, templateData)
}
