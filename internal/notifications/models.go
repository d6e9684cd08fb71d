package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingCreated        NotificationType = "BOOKING_CREATED"
	NotificationTypeBookingConfirmed      NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingCancelled      NotificationType = "BOOKING_CANCELLED"
	NotificationTypeBookingCompleted      NotificationType = "BOOKING_COMPLETED"
	NotificationTypeBookingReminder       NotificationType = "BOOKING_REMINDER"
	NotificationTypePaymentSuccessful     NotificationType = "PAYMENT_SUCCESSFUL"
	NotificationTypePaymentFailed         NotificationType = "PAYMENT_FAILED"
	NotificationTypePaymentRefunded       NotificationType = "PAYMENT_REFUNDED"
	NotificationTypeWaitlistSlotAvailable NotificationType = "WAITLIST_SLOT_AVAILABLE"
	NotificationTypeWaitlistExpired       NotificationType = "WAITLIST_EXPIRED"
)

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "EMAIL"
	NotificationChannelSMS   NotificationChannel = "SMS"
)

type NotificationPriority string

const (
	NotificationPriorityLow      NotificationPriority = "LOW"
	NotificationPriorityMedium   NotificationPriority = "MEDIUM"
	NotificationPriorityHigh     NotificationPriority = "HIGH"
	NotificationPriorityCritical NotificationPriority = "CRITICAL"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
	NotificationStatusExpired  NotificationStatus = "EXPIRED"
)

// Notification is the message shape that travels through Kafka. The
// producer and the consumer workers both speak this struct, so every
// field here is part of the wire contract.
type Notification struct {
	ID       uuid.UUID             `json:"id"`
	Type     NotificationType      `json:"type"`
	Priority NotificationPriority  `json:"priority"`
	Channels []NotificationChannel `json:"channels"`

	// Recipient info
	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	RecipientPhone string    `json:"recipient_phone,omitempty"`

	// Content
	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	// Context
	SalonID         *uuid.UUID `json:"salon_id,omitempty"`
	BookingID       *uuid.UUID `json:"booking_id,omitempty"`
	PaymentID       *uuid.UUID `json:"payment_id,omitempty"`
	WaitlistEntryID *uuid.UUID `json:"waitlist_entry_id,omitempty"`

	// Timing
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	// Status tracking
	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *Notification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &Notification{
			ID:           uuid.New(),
			Status:       NotificationStatusPending,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			MaxRetries:   3,
			TemplateData: make(map[string]interface{}),
		},
	}
}

// WithType sets the type along with its default priority and channels.
// Both can still be overridden afterwards.
func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	nb.notification.Priority = GetDefaultPriority(notType)
	nb.notification.Channels = GetDefaultChannels(notType)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(userID uuid.UUID, email, name string) *NotificationBuilder {
	nb.notification.RecipientID = userID
	nb.notification.RecipientEmail = email
	nb.notification.RecipientName = name
	return nb
}

func (nb *NotificationBuilder) WithPhone(phone string) *NotificationBuilder {
	nb.notification.RecipientPhone = phone
	return nb
}

func (nb *NotificationBuilder) WithChannels(channels ...NotificationChannel) *NotificationBuilder {
	nb.notification.Channels = channels
	return nb
}

func (nb *NotificationBuilder) WithPriority(priority NotificationPriority) *NotificationBuilder {
	nb.notification.Priority = priority
	return nb
}

func (nb *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	nb.notification.Subject = subject
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]interface{}) *NotificationBuilder {
	nb.notification.TemplateData = data
	return nb
}

func (nb *NotificationBuilder) WithSalonContext(salonID uuid.UUID) *NotificationBuilder {
	nb.notification.SalonID = &salonID
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(bookingID uuid.UUID) *NotificationBuilder {
	nb.notification.BookingID = &bookingID
	return nb
}

func (nb *NotificationBuilder) WithPaymentContext(paymentID uuid.UUID) *NotificationBuilder {
	nb.notification.PaymentID = &paymentID
	return nb
}

func (nb *NotificationBuilder) WithWaitlistContext(waitlistEntryID uuid.UUID) *NotificationBuilder {
	nb.notification.WaitlistEntryID = &waitlistEntryID
	return nb
}

func (nb *NotificationBuilder) WithExpiration(expiresAt *time.Time) *NotificationBuilder {
	nb.notification.ExpiresAt = expiresAt
	return nb
}

func (nb *NotificationBuilder) WithMaxRetries(maxRetries int) *NotificationBuilder {
	nb.notification.MaxRetries = maxRetries
	return nb
}

func (nb *NotificationBuilder) Build() *Notification {
	return nb.notification
}

// GetDefaultPriority returns how urgent a notification type is by
// default. Priority currently drives only logging and header metadata.
func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeWaitlistSlotAvailable, NotificationTypePaymentFailed:
		return NotificationPriorityHigh
	case NotificationTypeBookingConfirmed, NotificationTypeBookingCancelled,
		NotificationTypeBookingReminder, NotificationTypePaymentSuccessful,
		NotificationTypePaymentRefunded:
		return NotificationPriorityMedium
	default:
		return NotificationPriorityLow
	}
}

// GetDefaultChannels returns the channels a notification type goes out
// on. Time-sensitive types also get an SMS when the recipient has a
// phone number on file.
func GetDefaultChannels(notType NotificationType) []NotificationChannel {
	switch notType {
	case NotificationTypeBookingReminder, NotificationTypeWaitlistSlotAvailable:
		return []NotificationChannel{NotificationChannelEmail, NotificationChannelSMS}
	default:
		return []NotificationChannel{NotificationChannelEmail}
	}
}

// GetPartitionKey keeps all of a recipient's notifications on one
// partition so they are delivered in order.
func (n *Notification) GetPartitionKey() string {
	return n.RecipientID.String()
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) HasChannel(channel NotificationChannel) bool {
	for _, c := range n.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

func (n *Notification) IsExpired() bool {
	return n.ExpiresAt != nil && time.Now().After(*n.ExpiresAt)
}

func (n *Notification) ShouldRetry() bool {
	return n.RetryCount < n.MaxRetries &&
		n.Status == NotificationStatusFailed &&
		!n.IsExpired()
}

func (n *Notification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *Notification) MarkFailed(err error) {
	now := time.Now()
	n.Status = NotificationStatusFailed
	n.UpdatedAt = now

	errorStr := err.Error()
	n.LastError = &errorStr
}

func (n *Notification) IncrementRetry() {
	n.RetryCount++
	n.UpdatedAt = time.Now()
	if n.ShouldRetry() {
		n.Status = NotificationStatusRetrying
	} else {
		n.Status = NotificationStatusExpired
	}
}
