package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"salonhub/internal/shared/config"
)

type NotificationService interface {
	SendNotification(ctx context.Context, notification *Notification) error
	SendBatchNotifications(ctx context.Context, notifications []*Notification) error

	SendBookingNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
		bookingID, salonID uuid.UUID, notificationType NotificationType,
		templateData map[string]interface{}) error

	SendPaymentNotification(ctx context.Context, userID uuid.UUID, email, name string,
		paymentID, bookingID uuid.UUID, notificationType NotificationType,
		templateData map[string]interface{}) error

	SendWaitlistNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
		salonID, waitlistEntryID uuid.UUID, notificationType NotificationType,
		templateData map[string]interface{}) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ServiceConfig struct {
	Kafka              config.KafkaConfig
	Email              config.EmailConfig
	SMS                config.SMSConfig
	NumConsumerWorkers int
}

// KafkaNotificationService queues notifications through Kafka and runs
// the consumer workers that deliver them over email and SMS.
type KafkaNotificationService struct {
	config       *ServiceConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	publisher    *NotificationPublisher
	emailService EmailService
	smsService   SMSService

	// State
	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewKafkaNotificationService wires producer, consumer and delivery
// channels together. Missing SMTP or Twilio credentials degrade the
// respective channel to a logging mock so local environments work
// without real providers.
func NewKafkaNotificationService(cfg *ServiceConfig) (NotificationService, error) {
	if cfg.NumConsumerWorkers <= 0 {
		cfg.NumConsumerWorkers = 3
	}

	var emailService EmailService
	if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
		log.Printf("Warning: SMTP not configured, emails will only be logged")
		emailService = NewMockEmailService()
	} else {
		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email))
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	}

	var smsService SMSService
	if cfg.SMS.Enabled && cfg.SMS.AccountSID != "" {
		smsService = NewTwilioSMSService(cfg.SMS)
	} else {
		smsService = NewMockSMSService()
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.NotificationTopic = cfg.Kafka.Topic
	producerConfig.DeadLetterTopic = cfg.Kafka.DLQTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.Topic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroup

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService, smsService, producer)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	publisher := NewNotificationPublisher(producer)

	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("📧 Notification service initialized (brokers: %v, topic: %s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)

	return &KafkaNotificationService{
		config:       cfg,
		producer:     producer,
		consumer:     consumer,
		publisher:    publisher,
		emailService: emailService,
		smsService:   smsService,
		isRunning:    false,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (kns *KafkaNotificationService) Start(ctx context.Context) error {
	kns.mu.Lock()
	defer kns.mu.Unlock()

	if kns.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting notification service...")

	err := kns.consumer.StartConsumers(kns.ctx, kns.config.NumConsumerWorkers)
	if err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	kns.isRunning = true
	log.Printf("✅ Notification service started successfully")

	return nil
}

func (kns *KafkaNotificationService) Stop() error {
	kns.mu.Lock()
	defer kns.mu.Unlock()

	if !kns.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping notification service...")

	kns.cancel()

	if err := kns.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := kns.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	kns.isRunning = false
	log.Printf("✅ Notification service stopped")

	return nil
}

func (kns *KafkaNotificationService) SendNotification(ctx context.Context, notification *Notification) error {
	return kns.producer.PublishNotification(ctx, notification)
}

func (kns *KafkaNotificationService) SendBatchNotifications(ctx context.Context, notifications []*Notification) error {
	return kns.producer.PublishBatchNotifications(ctx, notifications)
}

func (kns *KafkaNotificationService) SendBookingNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
	bookingID, salonID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	return kns.publisher.PublishBookingNotification(ctx, userID, email, name, phone, bookingID, salonID, notificationType, templateData)
}

func (kns *KafkaNotificationService) SendPaymentNotification(ctx context.Context, userID uuid.UUID, email, name string,
	paymentID, bookingID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	return kns.publisher.PublishPaymentNotification(ctx, userID, email, name, paymentID, bookingID, notificationType, templateData)
}

func (kns *KafkaNotificationService) SendWaitlistNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
	salonID, waitlistEntryID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	return kns.publisher.PublishWaitlistNotification(ctx, userID, email, name, phone, salonID, waitlistEntryID, notificationType, templateData)
}

func (kns *KafkaNotificationService) HealthCheck(ctx context.Context) error {
	kns.mu.RLock()
	isRunning := kns.isRunning
	kns.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := kns.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := kns.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
