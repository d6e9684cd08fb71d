package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"salonhub/internal/bookings"
)

// UserContactService provides recipient contact details (to avoid circular dependency)
type UserContactService interface {
	GetUserContact(ctx context.Context, userID uuid.UUID) (email, phone, firstName, lastName string, err error)
}

// SalonDirectory resolves salon display names for message content
type SalonDirectory interface {
	GetSalonNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

var bookingEventTypes = map[string]NotificationType{
	bookings.EventBookingCreated:   NotificationTypeBookingCreated,
	bookings.EventBookingConfirmed: NotificationTypeBookingConfirmed,
	bookings.EventBookingCancelled: NotificationTypeBookingCancelled,
	bookings.EventBookingCompleted: NotificationTypeBookingCompleted,
	bookings.EventBookingReminder:  NotificationTypeBookingReminder,
}

// BookingNotifierAdapter implements the booking package's Notifier
// interface by translating lifecycle events into queued notifications.
type BookingNotifierAdapter struct {
	service NotificationService
	users   UserContactService
	salons  SalonDirectory
}

// NewBookingNotifierAdapter creates a new booking notifier adapter
func NewBookingNotifierAdapter(service NotificationService, users UserContactService, salons SalonDirectory) *BookingNotifierAdapter {
	return &BookingNotifierAdapter{
		service: service,
		users:   users,
		salons:  salons,
	}
}

// NotifyBookingEvent queues a notification for a booking lifecycle event
func (a *BookingNotifierAdapter) NotifyBookingEvent(ctx context.Context, event string, booking *bookings.Booking) error {
	notType, ok := bookingEventTypes[event]
	if !ok {
		return fmt.Errorf("unknown booking event %q", event)
	}

	email, phone, firstName, lastName, err := a.users.GetUserContact(ctx, booking.CustomerID)
	if err != nil {
		return err
	}

	// Salon name is display-only; a lookup failure degrades the message
	// but never blocks it
	salonName := ""
	if names, err := a.salons.GetSalonNames(ctx, []uuid.UUID{booking.SalonID}); err != nil {
		log.Printf("Warning: failed to resolve salon name for notification: %v", err)
	} else {
		salonName = names[booking.SalonID]
	}

	data := map[string]interface{}{
		"salon_name":     salonName,
		"scheduled_time": booking.ScheduledTime.Format("Mon, 02 Jan 2006 15:04"),
		"total_amount":   booking.TotalAmount,
		"currency":       booking.Currency,
		"booking_id":     booking.ID.String(),
	}

	name := strings.TrimSpace(firstName + " " + lastName)
	return a.service.SendBookingNotification(ctx, booking.CustomerID, email, name, phone, booking.ID, booking.SalonID, notType, data)
}
