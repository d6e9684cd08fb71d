package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"salonhub/internal/shared/config"
)

// EmailService interface for sending emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *Notification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
	SendTemplate(ctx context.Context, to, subject, templateName string, data interface{}) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfig builds an SMTP config from the application email settings
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  "SalonHub",
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[string]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	return &SMTPEmailService{
		config:    config,
		templates: make(map[string]*template.Template),
	}, nil
}

// validateSMTPConfig validates SMTP configuration
func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}

	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}

	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}

	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}

	if config.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}

	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}

	return nil
}

// SendNotification sends a notification via email
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *Notification) error {
	log.Printf("📧 [SMTP] Sending %s notification to %s (%s)",
		notification.Type,
		notification.RecipientEmail,
		notification.RecipientName,
	)

	htmlBody, textBody, err := s.generateContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

// SendHTML sends an HTML email
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 [SMTP] Email sent successfully to %s", to)
	return nil
}

// SendTemplate sends an email using a registered template
func (s *SMTPEmailService) SendTemplate(ctx context.Context, to, subject, templateName string, data interface{}) error {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var htmlBuf, textBuf bytes.Buffer

	if err := tmpl.ExecuteTemplate(&htmlBuf, "html", data); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}

	if err := tmpl.ExecuteTemplate(&textBuf, "text", data); err != nil {
		textBuf.WriteString("Please view this email in HTML format.")
	}

	return s.SendHTML(ctx, to, subject, htmlBuf.String(), textBuf.String())
}

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write(message)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	// Create multipart message
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	// Text part
	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n"
		message += "\r\n"
		message += textBody + "\r\n"
	}

	// HTML part
	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n"
		message += "\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// generateContent generates email content from notification data
func (s *SMTPEmailService) generateContent(notification *Notification) (string, string, error) {
	if tmpl, exists := s.templates[string(notification.Type)]; exists {
		var htmlBuf, textBuf bytes.Buffer

		if err := tmpl.ExecuteTemplate(&htmlBuf, "html", notification.TemplateData); err != nil {
			return "", "", err
		}

		tmpl.ExecuteTemplate(&textBuf, "text", notification.TemplateData)

		return htmlBuf.String(), textBuf.String(), nil
	}

	return s.generateDefaultContent(notification)
}

// generateDefaultContent creates default email content for notification types
func (s *SMTPEmailService) generateDefaultContent(notification *Notification) (string, string, error) {
	data := notification.TemplateData

	switch notification.Type {
	case NotificationTypeBookingConfirmed:
		htmlBody := fmt.Sprintf(`
			<h2>✅ Booking Confirmed</h2>
			<p>Hi %s,</p>
			<p>Your booking at <strong>%v</strong> is confirmed!</p>
			<p>When: <strong>%v</strong></p>
			<p>Total paid: %v %v</p>
			<p>We look forward to seeing you.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
			data["currency"],
			data["total_amount"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking at %v is confirmed!\nWhen: %v\nTotal paid: %v %v\n\nWe look forward to seeing you.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
			data["currency"],
			data["total_amount"],
		)

		return htmlBody, textBody, nil

	case NotificationTypeBookingCancelled:
		htmlBody := fmt.Sprintf(`
			<h2>❌ Booking Cancelled</h2>
			<p>Hi %s,</p>
			<p>Your booking at <strong>%v</strong> for <strong>%v</strong> has been cancelled.</p>
			<p>Any refund due will be returned to your original payment method within a few business days.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking at %v for %v has been cancelled.\nAny refund due will be returned to your original payment method within a few business days.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
		)

		return htmlBody, textBody, nil

	case NotificationTypeBookingReminder:
		htmlBody := fmt.Sprintf(`
			<h2>🔔 Appointment Reminder</h2>
			<p>Hi %s,</p>
			<p>This is a reminder of your upcoming appointment at <strong>%v</strong>.</p>
			<p>When: <strong>%v</strong></p>
			<p>If you can no longer make it, please cancel in advance so the slot can go to someone else.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nThis is a reminder of your upcoming appointment at %v.\nWhen: %v\n\nIf you can no longer make it, please cancel in advance so the slot can go to someone else.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
			data["salon_name"],
			data["scheduled_time"],
		)

		return htmlBody, textBody, nil

	case NotificationTypePaymentFailed:
		htmlBody := fmt.Sprintf(`
			<h2>❌ Payment Failed</h2>
			<p>Hi %s,</p>
			<p>Your payment (reference <strong>%v</strong>) could not be processed.</p>
			<p>Your booking is still reserved. Please retry the payment from your bookings page to confirm it.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.RecipientName,
			data["reference"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour payment (reference %v) could not be processed.\nYour booking is still reserved. Please retry the payment from your bookings page to confirm it.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
			data["reference"],
		)

		return htmlBody, textBody, nil

	case NotificationTypeWaitlistSlotAvailable:
		htmlBody := fmt.Sprintf(`
			<h2>🎉 Great News! A slot opened up</h2>
			<p>Hi %s,</p>
			<p>A slot has become available at <strong>%v</strong> for <strong>%v</strong>.</p>
			<p>Slots are first come, first served, so book soon.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.RecipientName,
			data["salon_name"],
			data["slot_time"],
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nA slot has become available at %v for %v.\nSlots are first come, first served, so book soon.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
			data["salon_name"],
			data["slot_time"],
		)

		return htmlBody, textBody, nil

	default:
		// Generic template
		htmlBody := fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p>This is a notification from SalonHub.</p>
			<p>Best regards,<br>SalonHub Team</p>
		`,
			notification.Subject,
			notification.RecipientName,
		)

		textBody := fmt.Sprintf(
			"Hi %s,\n\nThis is a notification from SalonHub.\n\nBest regards,\nSalonHub Team",
			notification.RecipientName,
		)

		return htmlBody, textBody, nil
	}
}

type MockEmailService struct{}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SendNotification sends a mock notification
func (s *MockEmailService) SendNotification(ctx context.Context, notification *Notification) error {
	log.Printf("📧 [MOCK] Sending %s notification to %s (%s)",
		notification.Type,
		notification.RecipientEmail,
		notification.RecipientName,
	)
	return nil
}

// SendHTML sends a mock HTML email
func (s *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [MOCK] To: %s, Subject: %s", to, subject)
	log.Printf("📧 [MOCK] HTML Body: %s", strings.TrimSpace(htmlBody))
	return nil
}

// SendTemplate sends a mock template email
func (s *MockEmailService) SendTemplate(ctx context.Context, to, subject, templateName string, data interface{}) error {
	log.Printf("📧 [MOCK] Template: %s, To: %s, Subject: %s", templateName, to, subject)
	return nil
}
