package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"salonhub/internal/shared/config"
)

// SMSService interface for sending text messages
type SMSService interface {
	SendNotification(ctx context.Context, notification *Notification) error
	SendText(ctx context.Context, to, body string) error
}

// TwilioSMSService sends texts through the Twilio REST API
type TwilioSMSService struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSMSService creates a new Twilio SMS service
func NewTwilioSMSService(cfg config.SMSConfig) *TwilioSMSService {
	return &TwilioSMSService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.FromNumber,
	}
}

func (s *TwilioSMSService) SendNotification(ctx context.Context, notification *Notification) error {
	if notification.RecipientPhone == "" {
		return fmt.Errorf("notification %s has no recipient phone number", notification.ID)
	}

	return s.SendText(ctx, notification.RecipientPhone, s.composeBody(notification))
}

func (s *TwilioSMSService) SendText(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}

	if resp.Sid != nil {
		log.Printf("📱 SMS sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("📱 SMS sent to %s, but no SID returned", to)
	}

	return nil
}

// composeBody renders the short form for the SMS channel. Texts carry
// only the essentials; the email version has the details.
func (s *TwilioSMSService) composeBody(n *Notification) string {
	data := n.TemplateData

	switch n.Type {
	case NotificationTypeBookingReminder:
		return fmt.Sprintf("SalonHub: reminder, your appointment at %v is at %v.",
			data["salon_name"], data["scheduled_time"])
	case NotificationTypeWaitlistSlotAvailable:
		return fmt.Sprintf("SalonHub: a slot opened up at %v for %v. Book now before it is taken!",
			data["salon_name"], data["slot_time"])
	default:
		return fmt.Sprintf("SalonHub: %s", n.Subject)
	}
}

// MockSMSService logs instead of sending, for environments without
// Twilio credentials
type MockSMSService struct{}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

// SendNotification sends a mock SMS notification
func (s *MockSMSService) SendNotification(ctx context.Context, notification *Notification) error {
	log.Printf("📱 [MOCK] Sending %s SMS to %s", notification.Type, notification.RecipientPhone)
	return nil
}

// SendText sends a mock text message
func (s *MockSMSService) SendText(ctx context.Context, to, body string) error {
	log.Printf("📱 [MOCK] To: %s, Body: %s", to, body)
	return nil
}
