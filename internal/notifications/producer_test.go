package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKafkaProducerConfig(t *testing.T) {
	cfg := DefaultKafkaProducerConfig()

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "notifications", cfg.NotificationTopic)
	assert.Equal(t, "notifications-dlq", cfg.DeadLetterTopic)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, sarama.WaitForAll, cfg.RequiredAcks)
	assert.Equal(t, sarama.CompressionSnappy, cfg.CompressionType)
	assert.True(t, cfg.IdempotentWrites)
	assert.Equal(t, 1000000, cfg.MaxMessageBytes)
}

func TestCreateHeaders(t *testing.T) {
	knp := &KafkaNotificationProducer{config: DefaultKafkaProducerConfig()}

	recipientID := uuid.New()
	salonID := uuid.New()
	bookingID := uuid.New()
	expires := time.Now().Add(time.Hour)

	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(recipientID, "ama.mensah@example.com", "Ama Mensah").
		WithSalonContext(salonID).
		WithBookingContext(bookingID).
		WithExpiration(&expires).
		Build()

	headers := knp.createHeaders(n)

	byKey := make(map[string]string, len(headers))
	for _, h := range headers {
		byKey[string(h.Key)] = string(h.Value)
	}

	assert.Equal(t, n.ID.String(), byKey["notification_id"])
	assert.Equal(t, "BOOKING_CONFIRMED", byKey["notification_type"])
	assert.Equal(t, "MEDIUM", byKey["priority"])
	assert.Equal(t, recipientID.String(), byKey["recipient_id"])
	assert.Equal(t, "ama.mensah@example.com", byKey["recipient_email"])
	assert.Equal(t, "EMAIL", byKey["channels"])
	assert.Equal(t, "1.0", byKey["version"])
	assert.Equal(t, "salonhub-notifications", byKey["producer"])
	assert.Equal(t, salonID.String(), byKey["salon_id"])
	assert.Equal(t, bookingID.String(), byKey["booking_id"])
	assert.Equal(t, expires.Format(time.RFC3339), byKey["expires_at"])

	_, hasPayment := byKey["payment_id"]
	assert.False(t, hasPayment, "context headers are only added when set")
	_, hasWaitlist := byKey["waitlist_entry_id"]
	assert.False(t, hasWaitlist)
}

func TestFormatChannels(t *testing.T) {
	knp := &KafkaNotificationProducer{}

	assert.Equal(t, "EMAIL", knp.formatChannels(nil), "empty falls back to email")
	assert.Equal(t, "SMS", knp.formatChannels([]NotificationChannel{NotificationChannelSMS}))
	assert.Equal(t, "EMAIL,SMS", knp.formatChannels([]NotificationChannel{NotificationChannelEmail, NotificationChannelSMS}))
}

func TestPublishBookingNotificationViaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewNotificationPublisher(producer)

	userID := uuid.New()
	bookingID := uuid.New()
	salonID := uuid.New()
	data := map[string]interface{}{"salon_name": "Adabraka Beauty Lounge"}

	err := publisher.PublishBookingNotification(context.Background(), userID,
		"ama.mensah@example.com", "Ama Mensah", "+233244000111",
		bookingID, salonID, NotificationTypeBookingConfirmed, data)
	require.NoError(t, err)

	require.Len(t, producer.published, 1)
	n := producer.published[0]

	assert.Equal(t, NotificationTypeBookingConfirmed, n.Type)
	assert.Equal(t, userID, n.RecipientID)
	assert.Equal(t, "ama.mensah@example.com", n.RecipientEmail)
	assert.Equal(t, "Ama Mensah", n.RecipientName)
	assert.Equal(t, "+233244000111", n.RecipientPhone)
	require.NotNil(t, n.BookingID)
	assert.Equal(t, bookingID, *n.BookingID)
	require.NotNil(t, n.SalonID)
	assert.Equal(t, salonID, *n.SalonID)
	assert.Nil(t, n.PaymentID)
	assert.Equal(t, data, n.TemplateData)
	assert.Equal(t, "✅ Booking confirmed at Adabraka Beauty Lounge", n.Subject)
}

func TestPublishPaymentNotificationViaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewNotificationPublisher(producer)

	userID := uuid.New()
	paymentID := uuid.New()
	bookingID := uuid.New()
	data := map[string]interface{}{"reference": "PAY-20260825-ABCDEFGH"}

	err := publisher.PublishPaymentNotification(context.Background(), userID,
		"ama.mensah@example.com", "Ama Mensah",
		paymentID, bookingID, NotificationTypePaymentSuccessful, data)
	require.NoError(t, err)

	require.Len(t, producer.published, 1)
	n := producer.published[0]

	assert.Equal(t, NotificationTypePaymentSuccessful, n.Type)
	require.NotNil(t, n.PaymentID)
	assert.Equal(t, paymentID, *n.PaymentID)
	require.NotNil(t, n.BookingID)
	assert.Equal(t, bookingID, *n.BookingID)
	assert.Nil(t, n.SalonID)
	assert.Empty(t, n.RecipientPhone)
	assert.Equal(t, "💳 Payment processed successfully", n.Subject)
}

func TestPublishWaitlistNotificationViaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewNotificationPublisher(producer)

	userID := uuid.New()
	salonID := uuid.New()
	entryID := uuid.New()
	data := map[string]interface{}{"salon_name": "Labone Hair Haven"}

	err := publisher.PublishWaitlistNotification(context.Background(), userID,
		"efua.owusu@example.com", "Efua Owusu", "+233201234567",
		salonID, entryID, NotificationTypeWaitlistSlotAvailable, data)
	require.NoError(t, err)

	require.Len(t, producer.published, 1)
	n := producer.published[0]

	assert.Equal(t, NotificationTypeWaitlistSlotAvailable, n.Type)
	assert.Equal(t, NotificationPriorityHigh, n.Priority)
	require.NotNil(t, n.SalonID)
	assert.Equal(t, salonID, *n.SalonID)
	require.NotNil(t, n.WaitlistEntryID)
	assert.Equal(t, entryID, *n.WaitlistEntryID)
	assert.Nil(t, n.BookingID)
	assert.Equal(t, "🎉 Great News! A slot opened up at Labone Hair Haven", n.Subject)
}

func TestPublisherPropagatesProducerError(t *testing.T) {
	producer := &fakeProducer{publishErr: errors.New("kafka: broker unreachable")}
	publisher := NewNotificationPublisher(producer)

	err := publisher.PublishBookingNotification(context.Background(), uuid.New(),
		"ama.mensah@example.com", "Ama Mensah", "",
		uuid.New(), uuid.New(), NotificationTypeBookingCreated, nil)

	require.Error(t, err)
	assert.Empty(t, producer.published)
}

func TestGenerateSubject(t *testing.T) {
	publisher := NewNotificationPublisher(&fakeProducer{})
	named := map[string]interface{}{"salon_name": "Glow Studio"}

	tests := []struct {
		name    string
		notType NotificationType
		data    map[string]interface{}
		want    string
	}{
		{"created with salon", NotificationTypeBookingCreated, named, "🗓️ Booking received at Glow Studio"},
		{"created without salon", NotificationTypeBookingCreated, nil, "🗓️ Your booking is reserved"},
		{"confirmed with salon", NotificationTypeBookingConfirmed, named, "✅ Booking confirmed at Glow Studio"},
		{"confirmed without salon", NotificationTypeBookingConfirmed, nil, "✅ Your booking is confirmed!"},
		{"cancelled with salon", NotificationTypeBookingCancelled, named, "❌ Booking cancelled at Glow Studio"},
		{"cancelled without salon", NotificationTypeBookingCancelled, nil, "❌ Your booking has been cancelled"},
		{"completed with salon", NotificationTypeBookingCompleted, named, "🙏 Thanks for visiting Glow Studio"},
		{"reminder with salon", NotificationTypeBookingReminder, named, "🔔 Reminder: your appointment at Glow Studio is coming up"},
		{"payment successful", NotificationTypePaymentSuccessful, nil, "💳 Payment processed successfully"},
		{"payment failed", NotificationTypePaymentFailed, nil, "❌ Payment failed - Action required"},
		{"payment refunded", NotificationTypePaymentRefunded, nil, "💳 Your refund has been processed"},
		{"slot available with salon", NotificationTypeWaitlistSlotAvailable, named, "🎉 Great News! A slot opened up at Glow Studio"},
		{"slot available without salon", NotificationTypeWaitlistSlotAvailable, nil, "🎉 A slot is now available!"},
		{"waitlist expired", NotificationTypeWaitlistExpired, nil, "⏰ Your waitlist entry has expired"},
		{"unknown type", NotificationType("SOMETHING_ELSE"), nil, "📧 Notification from SalonHub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publisher.generateSubject(tt.notType, tt.data))
		})
	}
}
