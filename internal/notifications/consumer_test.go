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

func TestDefaultConsumerConfig(t *testing.T) {
	cfg := DefaultConsumerConfig()

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "salonhub-notifications", cfg.GroupID)
	assert.Equal(t, []string{"notifications"}, cfg.Topics)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryBackoffDuration)
	assert.True(t, cfg.AutoCommit)
	assert.False(t, cfg.OffsetOldest)
}

// newHandler builds a consumer group handler around fakes. The Kafka
// consumer group itself is never touched on the message processing
// path, so it stays nil.
func newHandler(email *fakeEmailService, sms SMSService, dlq NotificationProducer) *ConsumerGroupHandler {
	cfg := DefaultConsumerConfig()
	cfg.MaxRetries = 2
	cfg.RetryBackoffDuration = time.Millisecond

	return &ConsumerGroupHandler{
		consumer: &KafkaNotificationConsumer{
			config:       cfg,
			emailService: email,
			smsService:   sms,
			deadLetter:   dlq,
		},
		workerID: 1,
	}
}

func consumerMessage(t *testing.T, n *Notification) *sarama.ConsumerMessage {
	t.Helper()
	value, err := n.ToJSON()
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "notifications", Value: value}
}

func reminderNotification(phone string) *Notification {
	return NewNotificationBuilder().
		WithType(NotificationTypeBookingReminder).
		WithRecipient(uuid.New(), "ama.mensah@example.com", "Ama Mensah").
		WithPhone(phone).
		WithSubject("🔔 Appointment reminder").
		Build()
}

func TestProcessMessageDeliversBothChannels(t *testing.T) {
	email := &fakeEmailService{}
	sms := &fakeSMSService{}
	h := newHandler(email, sms, &fakeProducer{})

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("+233244000111")))
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ama.mensah@example.com", email.sent[0].RecipientEmail)
	require.Len(t, sms.sent, 1, "reminders carry an SMS leg")
	assert.Equal(t, "+233244000111", sms.sent[0].RecipientPhone)
}

func TestProcessMessageSkipsSMSWithoutPhone(t *testing.T) {
	email := &fakeEmailService{}
	sms := &fakeSMSService{}
	h := newHandler(email, sms, &fakeProducer{})

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("")))
	require.NoError(t, err)

	assert.Len(t, email.sent, 1)
	assert.Empty(t, sms.sent)
}

func TestProcessMessageSkipsSMSForEmailOnlyTypes(t *testing.T) {
	email := &fakeEmailService{}
	sms := &fakeSMSService{}
	h := newHandler(email, sms, &fakeProducer{})

	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(uuid.New(), "ama.mensah@example.com", "Ama Mensah").
		WithPhone("+233244000111").
		Build()

	err := h.processMessage(context.Background(), consumerMessage(t, n))
	require.NoError(t, err)

	assert.Len(t, email.sent, 1)
	assert.Empty(t, sms.sent)
}

// A lost SMS is tolerable because the email already carries the full
// message. Only email failures count against the delivery.
func TestProcessMessageSMSIsBestEffort(t *testing.T) {
	email := &fakeEmailService{}
	sms := &fakeSMSService{err: errors.New("twilio: unreachable")}
	dlq := &fakeProducer{}
	h := newHandler(email, sms, dlq)

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("+233244000111")))
	require.NoError(t, err)

	assert.Len(t, email.sent, 1)
	assert.Empty(t, dlq.deadLetter)
}

func TestProcessMessageSkipsMalformedPayload(t *testing.T) {
	email := &fakeEmailService{}
	h := newHandler(email, nil, &fakeProducer{})

	msg := &sarama.ConsumerMessage{Topic: "notifications", Value: []byte(`{"id": not json`)}

	err := h.processMessage(context.Background(), msg)
	require.NoError(t, err, "malformed messages must not block the partition")
	assert.Empty(t, email.sent)
}

func TestProcessMessageSkipsExpired(t *testing.T) {
	email := &fakeEmailService{}
	h := newHandler(email, nil, &fakeProducer{})

	expired := time.Now().Add(-time.Minute)
	n := reminderNotification("")
	n.ExpiresAt = &expired

	err := h.processMessage(context.Background(), consumerMessage(t, n))
	require.NoError(t, err)
	assert.Empty(t, email.sent)
}

func TestProcessMessageRetriesTransientFailures(t *testing.T) {
	email := &fakeEmailService{failures: 2}
	dlq := &fakeProducer{}
	h := newHandler(email, nil, dlq)

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("")))
	require.NoError(t, err)

	require.Len(t, email.sent, 1, "third attempt lands within the retry budget")
	assert.Empty(t, dlq.deadLetter)
}

func TestProcessMessageParksExhaustedInDeadLetter(t *testing.T) {
	email := &fakeEmailService{err: errors.New("smtp: 550 mailbox unavailable")}
	dlq := &fakeProducer{}
	h := newHandler(email, nil, dlq)

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("")))
	require.NoError(t, err, "a parked message is handled, the offset moves on")

	assert.Empty(t, email.sent)
	require.Len(t, dlq.deadLetter, 1)

	parked := dlq.deadLetter[0]
	assert.Contains(t, parked.reason, "550 mailbox unavailable")
	assert.Equal(t, NotificationStatusFailed, parked.notification.Status)
	require.NotNil(t, parked.notification.LastError)
	assert.Contains(t, *parked.notification.LastError, "550 mailbox unavailable")
}

func TestProcessMessageRedeliversWhenDLQUnavailable(t *testing.T) {
	email := &fakeEmailService{err: errors.New("smtp: 550 mailbox unavailable")}
	dlq := &fakeProducer{dlqErr: errors.New("kafka: broker unreachable")}
	h := newHandler(email, nil, dlq)

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("")))

	// The offset must stay unmarked so the message comes around again
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dead-letter")
}

func TestProcessMessageDropsWithoutDLQ(t *testing.T) {
	email := &fakeEmailService{err: errors.New("smtp: 550 mailbox unavailable")}
	h := newHandler(email, nil, nil)

	err := h.processMessage(context.Background(), consumerMessage(t, reminderNotification("")))
	require.NoError(t, err)
	assert.Empty(t, email.sent)
}
