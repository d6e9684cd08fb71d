package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"salonhub/internal/payments"
)

// BookingAccessResolver resolves who is attached to a booking; the
// payment repository satisfies it.
type BookingAccessResolver interface {
	GetAccessInfo(ctx context.Context, bookingID uuid.UUID) (*payments.AccessInfo, error)
}

var paymentEventTypes = map[string]NotificationType{
	payments.EventPaymentSuccessful: NotificationTypePaymentSuccessful,
	payments.EventPaymentFailed:     NotificationTypePaymentFailed,
	payments.EventPaymentRefunded:   NotificationTypePaymentRefunded,
}

// PaymentNotifierAdapter implements the payment package's Notifier
// interface by translating settlement events into queued notifications.
type PaymentNotifierAdapter struct {
	service NotificationService
	users   UserContactService
	access  BookingAccessResolver
}

// NewPaymentNotifierAdapter creates a new payment notifier adapter
func NewPaymentNotifierAdapter(service NotificationService, users UserContactService, access BookingAccessResolver) *PaymentNotifierAdapter {
	return &PaymentNotifierAdapter{
		service: service,
		users:   users,
		access:  access,
	}
}

// NotifyPaymentEvent queues a notification for a payment settlement event
func (a *PaymentNotifierAdapter) NotifyPaymentEvent(ctx context.Context, event string, payment *payments.Payment) error {
	notType, ok := paymentEventTypes[event]
	if !ok {
		return fmt.Errorf("unknown payment event %q", event)
	}

	info, err := a.access.GetAccessInfo(ctx, payment.BookingID)
	if err != nil {
		return err
	}

	email, _, firstName, lastName, err := a.users.GetUserContact(ctx, info.CustomerID)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"reference":  payment.Reference,
		"amount":     payment.Amount,
		"currency":   payment.Currency,
		"booking_id": payment.BookingID.String(),
	}

	name := strings.TrimSpace(firstName + " " + lastName)
	return a.service.SendPaymentNotification(ctx, info.CustomerID, email, name, payment.ID, payment.BookingID, notType, data)
}
