package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// NotificationProducer interface defines the contract for publishing notifications
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *Notification) error
	PublishBatchNotifications(ctx context.Context, notifications []*Notification) error
	PublishToDeadLetter(ctx context.Context, notification *Notification, reason string) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	DeadLetterTopic   string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "notifications",
		DeadLetterTopic:   "notifications-dlq",
		RetryMax:          3,
		TimeoutMs:         10000,             // 10 seconds
		RequiredAcks:      sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000, // 1MB
	}
}

// KafkaNotificationProducer handles publishing notifications to Kafka
type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaNotificationProducer creates a new Kafka notification producer
func NewKafkaNotificationProducer(config *KafkaProducerConfig) (NotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	// Producer configuration
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Idempotent writes require a single in-flight request
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Use hash partitioner for consistent routing based on recipient
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	kafkaProducer := &KafkaNotificationProducer{
		producer: producer,
		config:   config,
	}

	log.Printf("📤 Kafka notification producer created successfully")
	return kafkaProducer, nil
}

// PublishNotification publishes a single notification to Kafka
func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     knp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   knp.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.Status = NotificationStatusFailed
		errorStr := err.Error()
		notification.LastError = &errorStr
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("📤 Notification published to Kafka - Topic: %s, Partition: %d, Offset: %d, Type: %s, Recipient: %s",
		knp.config.NotificationTopic, partition, offset, notification.Type, notification.RecipientEmail)

	return nil
}

// PublishBatchNotifications publishes multiple notifications in batch for efficiency
func (knp *KafkaNotificationProducer) PublishBatchNotifications(ctx context.Context, notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(notifications))

	for _, notification := range notifications {
		notification.Status = NotificationStatusQueued
		notification.UpdatedAt = time.Now()

		messageBytes, err := notification.ToJSON()
		if err != nil {
			log.Printf("Failed to marshal notification for user %s: %v", notification.RecipientEmail, err)
			continue
		}

		message := &sarama.ProducerMessage{
			Topic:     knp.config.NotificationTopic,
			Key:       sarama.StringEncoder(notification.GetPartitionKey()),
			Value:     sarama.ByteEncoder(messageBytes),
			Headers:   knp.createHeaders(notification),
			Timestamp: notification.CreatedAt,
		}

		messages = append(messages, message)
	}

	err := knp.producer.SendMessages(messages)
	if err != nil {
		for _, notification := range notifications {
			notification.Status = NotificationStatusFailed
			errorStr := err.Error()
			notification.LastError = &errorStr
		}
		return fmt.Errorf("failed to send batch notifications to Kafka: %w", err)
	}

	log.Printf("📤 Batch of %d notifications published to Kafka topic: %s", len(messages), knp.config.NotificationTopic)
	return nil
}

// PublishToDeadLetter parks a notification that exhausted its delivery
// retries so it can be replayed or inspected later.
func (knp *KafkaNotificationProducer) PublishToDeadLetter(ctx context.Context, notification *Notification, reason string) error {
	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter notification: %w", err)
	}

	headers := knp.createHeaders(notification)
	headers = append(headers, sarama.RecordHeader{
		Key:   []byte("dlq_reason"),
		Value: []byte(reason),
	})

	message := &sarama.ProducerMessage{
		Topic:     knp.config.DeadLetterTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   headers,
		Timestamp: time.Now(),
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send notification to dead letter topic: %w", err)
	}

	log.Printf("📤 Notification %s dead-lettered - Topic: %s, Partition: %d, Offset: %d, Reason: %s",
		notification.ID, knp.config.DeadLetterTopic, partition, offset, reason)

	return nil
}

// createHeaders creates Kafka headers for notifications
func (knp *KafkaNotificationProducer) createHeaders(notification *Notification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID.String())},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("channels"), Value: []byte(knp.formatChannels(notification.Channels))},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte("salonhub-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}

	// Add optional context headers
	if notification.SalonID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("salon_id"),
			Value: []byte(notification.SalonID.String()),
		})
	}

	if notification.BookingID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("booking_id"),
			Value: []byte(notification.BookingID.String()),
		})
	}

	if notification.PaymentID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("payment_id"),
			Value: []byte(notification.PaymentID.String()),
		})
	}

	if notification.WaitlistEntryID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("waitlist_entry_id"),
			Value: []byte(notification.WaitlistEntryID.String()),
		})
	}

	if notification.ExpiresAt != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("expires_at"),
			Value: []byte(notification.ExpiresAt.Format(time.RFC3339)),
		})
	}

	return headers
}

// formatChannels formats notification channels for headers
func (knp *KafkaNotificationProducer) formatChannels(channels []NotificationChannel) string {
	if len(channels) == 0 {
		return string(NotificationChannelEmail) // default
	}

	result := string(channels[0])
	for i := 1; i < len(channels); i++ {
		result += "," + string(channels[i])
	}
	return result
}

// Close closes the Kafka producer
func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer != nil {
		err := knp.producer.Close()
		if err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka notification producer closed")
	}
	return nil
}

// HealthCheck performs a health check on the Kafka producer
func (knp *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	// Build a throwaway notification to exercise the full message path
	// short of actually sending it
	testNotification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(uuid.New(), "health-check@test.com", "Health Check").
		WithSubject("Health Check").
		Build()

	messageBytes, err := testNotification.ToJSON()
	if err != nil {
		return fmt.Errorf("health check failed - JSON marshaling error: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:   knp.config.NotificationTopic,
		Key:     sarama.StringEncoder("health-check"),
		Value:   sarama.ByteEncoder(messageBytes),
		Headers: knp.createHeaders(testNotification),
	}

	if message.Topic == "" {
		return fmt.Errorf("health check failed - invalid topic configuration")
	}

	if len(message.Headers) == 0 {
		return fmt.Errorf("health check failed - headers not created properly")
	}

	if knp.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}

	return nil
}

// NotificationPublisher provides a high-level interface for publishing different types of notifications
type NotificationPublisher struct {
	producer NotificationProducer
}

// NewNotificationPublisher creates a new notification publisher
func NewNotificationPublisher(producer NotificationProducer) *NotificationPublisher {
	return &NotificationPublisher{
		producer: producer,
	}
}

// PublishBookingNotification publishes a booking lifecycle notification
func (np *NotificationPublisher) PublishBookingNotification(ctx context.Context,
	userID uuid.UUID, email, name, phone string, bookingID uuid.UUID, salonID uuid.UUID,
	notificationType NotificationType, templateData map[string]interface{}) error {

	notification := NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(userID, email, name).
		WithPhone(phone).
		WithBookingContext(bookingID).
		WithSalonContext(salonID).
		WithTemplateData(templateData).
		Build()

	notification.Subject = np.generateSubject(notificationType, templateData)

	return np.producer.PublishNotification(ctx, notification)
}

// PublishPaymentNotification publishes a payment lifecycle notification
func (np *NotificationPublisher) PublishPaymentNotification(ctx context.Context,
	userID uuid.UUID, email, name string, paymentID uuid.UUID, bookingID uuid.UUID,
	notificationType NotificationType, templateData map[string]interface{}) error {

	notification := NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(userID, email, name).
		WithPaymentContext(paymentID).
		WithBookingContext(bookingID).
		WithTemplateData(templateData).
		Build()

	notification.Subject = np.generateSubject(notificationType, templateData)

	return np.producer.PublishNotification(ctx, notification)
}

// PublishWaitlistNotification publishes a waitlist-specific notification
func (np *NotificationPublisher) PublishWaitlistNotification(ctx context.Context,
	userID uuid.UUID, email, name, phone string, salonID uuid.UUID, waitlistEntryID uuid.UUID,
	notificationType NotificationType, templateData map[string]interface{}) error {

	notification := NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(userID, email, name).
		WithPhone(phone).
		WithSalonContext(salonID).
		WithWaitlistContext(waitlistEntryID).
		WithTemplateData(templateData).
		Build()

	notification.Subject = np.generateSubject(notificationType, templateData)

	return np.producer.PublishNotification(ctx, notification)
}

// generateSubject generates appropriate subjects for different notification types
func (np *NotificationPublisher) generateSubject(notificationType NotificationType, data map[string]interface{}) string {
	switch notificationType {
	case NotificationTypeBookingCreated:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("🗓️ Booking received at %s", salonName)
		}
		return "🗓️ Your booking is reserved"

	case NotificationTypeBookingConfirmed:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("✅ Booking confirmed at %s", salonName)
		}
		return "✅ Your booking is confirmed!"

	case NotificationTypeBookingCancelled:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("❌ Booking cancelled at %s", salonName)
		}
		return "❌ Your booking has been cancelled"

	case NotificationTypeBookingCompleted:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("🙏 Thanks for visiting %s", salonName)
		}
		return "🙏 Thanks for your visit"

	case NotificationTypeBookingReminder:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("🔔 Reminder: your appointment at %s is coming up", salonName)
		}
		return "🔔 Appointment reminder"

	case NotificationTypePaymentSuccessful:
		return "💳 Payment processed successfully"

	case NotificationTypePaymentFailed:
		return "❌ Payment failed - Action required"

	case NotificationTypePaymentRefunded:
		return "💳 Your refund has been processed"

	case NotificationTypeWaitlistSlotAvailable:
		if salonName, ok := data["salon_name"]; ok {
			return fmt.Sprintf("🎉 Great News! A slot opened up at %s", salonName)
		}
		return "🎉 A slot is now available!"

	case NotificationTypeWaitlistExpired:
		return "⏰ Your waitlist entry has expired"

	default:
		return "📧 Notification from SalonHub"
	}
}
