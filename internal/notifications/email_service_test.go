package notifications

import (
	"context"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonhub/internal/shared/config"
)

func validSMTPConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:      "smtp.gmail.com",
		Port:      587,
		Username:  "notify@salonhub.app",
		Password:  "app-password",
		FromEmail: "notify@salonhub.app",
		FromName:  "SalonHub",
		UseTLS:    true,
	}
}

func TestNewSMTPConfig(t *testing.T) {
	cfg := NewSMTPConfig(config.EmailConfig{
		SMTPHost:     "smtp.gmail.com",
		SMTPPort:     587,
		SMTPUsername: "notify@salonhub.app",
		SMTPPassword: "app-password",
		FromEmail:    "no-reply@salonhub.app",
	})

	assert.Equal(t, "smtp.gmail.com", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
	assert.Equal(t, "notify@salonhub.app", cfg.Username)
	assert.Equal(t, "no-reply@salonhub.app", cfg.FromEmail)
	assert.Equal(t, "SalonHub", cfg.FromName)
	assert.True(t, cfg.UseTLS)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestNewSMTPEmailServiceValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *SMTPConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *SMTPConfig) {},
		},
		{
			name:    "missing host",
			mutate:  func(cfg *SMTPConfig) { cfg.Host = "" },
			wantErr: "host is required",
		},
		{
			name:    "zero port",
			mutate:  func(cfg *SMTPConfig) { cfg.Port = 0 },
			wantErr: "port must be between",
		},
		{
			name:    "port out of range",
			mutate:  func(cfg *SMTPConfig) { cfg.Port = 70000 },
			wantErr: "port must be between",
		},
		{
			name:    "missing username",
			mutate:  func(cfg *SMTPConfig) { cfg.Username = "" },
			wantErr: "username is required",
		},
		{
			name:    "missing password",
			mutate:  func(cfg *SMTPConfig) { cfg.Password = "" },
			wantErr: "password is required",
		},
		{
			name:    "missing from address",
			mutate:  func(cfg *SMTPConfig) { cfg.FromEmail = "" },
			wantErr: "from email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validSMTPConfig()
			tt.mutate(cfg)

			svc, err := NewSMTPEmailService(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, svc)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, svc)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		svc, err := NewSMTPEmailService(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config is nil")
		assert.Nil(t, svc)
	})
}

func TestBuildMessage(t *testing.T) {
	svc, err := NewSMTPEmailService(validSMTPConfig())
	require.NoError(t, err)

	raw := string(svc.buildMessage("ama.mensah@example.com", "✅ Booking confirmed", "<p>Hello Ama</p>", "Hello Ama"))

	assert.Contains(t, raw, "From: SalonHub <notify@salonhub.app>\r\n")
	assert.Contains(t, raw, "To: ama.mensah@example.com\r\n")
	assert.Contains(t, raw, "Subject: ✅ Booking confirmed\r\n")
	assert.Contains(t, raw, "MIME-Version: 1.0\r\n")
	assert.Contains(t, raw, "multipart/alternative; boundary=")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, raw, "<p>Hello Ama</p>")
	assert.True(t, strings.HasSuffix(raw, "--\r\n"), "message must close its MIME boundary")
}

func TestBuildMessageSkipsEmptyParts(t *testing.T) {
	svc, err := NewSMTPEmailService(validSMTPConfig())
	require.NoError(t, err)

	raw := string(svc.buildMessage("ama.mensah@example.com", "Subject", "<p>HTML only</p>", ""))

	assert.NotContains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestGenerateDefaultContent(t *testing.T) {
	svc, err := NewSMTPEmailService(validSMTPConfig())
	require.NoError(t, err)

	t.Run("booking confirmed", func(t *testing.T) {
		n := NewNotificationBuilder().
			WithType(NotificationTypeBookingConfirmed).
			WithRecipient(uuid.New(), "ama.mensah@example.com", "Ama Mensah").
			WithTemplateData(map[string]interface{}{
				"salon_name":     "Adabraka Beauty Lounge",
				"scheduled_time": "Fri, 04 Sep 2026 14:30",
				"total_amount":   55.00,
				"currency":       "GHS",
			}).
			Build()

		html, text, err := svc.generateContent(n)
		require.NoError(t, err)

		assert.Contains(t, html, "Booking Confirmed")
		assert.Contains(t, html, "Ama Mensah")
		assert.Contains(t, html, "Adabraka Beauty Lounge")
		assert.Contains(t, text, "Fri, 04 Sep 2026 14:30")
		assert.Contains(t, text, "GHS 55")
	})

	t.Run("payment failed", func(t *testing.T) {
		n := NewNotificationBuilder().
			WithType(NotificationTypePaymentFailed).
			WithRecipient(uuid.New(), "ama.mensah@example.com", "Ama Mensah").
			WithTemplateData(map[string]interface{}{"reference": "PAY-20260825-ABCDEFGH"}).
			Build()

		html, text, err := svc.generateContent(n)
		require.NoError(t, err)

		assert.Contains(t, html, "PAY-20260825-ABCDEFGH")
		assert.Contains(t, text, "still reserved", "failed payments must tell the customer the booking is held")
	})

	t.Run("waitlist slot available", func(t *testing.T) {
		n := NewNotificationBuilder().
			WithType(NotificationTypeWaitlistSlotAvailable).
			WithRecipient(uuid.New(), "efua.owusu@example.com", "Efua Owusu").
			WithTemplateData(map[string]interface{}{
				"salon_name": "Labone Hair Haven",
				"slot_time":  "Fri, 04 Sep 2026 14:30",
			}).
			Build()

		html, text, err := svc.generateContent(n)
		require.NoError(t, err)

		assert.Contains(t, html, "Labone Hair Haven")
		assert.Contains(t, html, "Fri, 04 Sep 2026 14:30")
		assert.Contains(t, text, "first come, first served")
	})

	t.Run("unhandled types fall back to a generic body", func(t *testing.T) {
		n := NewNotificationBuilder().
			WithType(NotificationTypeWaitlistExpired).
			WithRecipient(uuid.New(), "efua.owusu@example.com", "Efua Owusu").
			WithSubject("⏰ Your waitlist entry has expired").
			Build()

		html, text, err := svc.generateContent(n)
		require.NoError(t, err)

		assert.Contains(t, html, "⏰ Your waitlist entry has expired")
		assert.Contains(t, text, "Efua Owusu")
	})
}

func TestGenerateContentPrefersRegisteredTemplate(t *testing.T) {
	svc, err := NewSMTPEmailService(validSMTPConfig())
	require.NoError(t, err)

	svc.templates[string(NotificationTypeBookingConfirmed)] = template.Must(template.New("confirmed").Parse(
		`{{define "html"}}<b>{{.salon_name}}</b>{{end}}{{define "text"}}{{.salon_name}}{{end}}`))

	n := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(uuid.New(), "ama.mensah@example.com", "Ama Mensah").
		WithTemplateData(map[string]interface{}{"salon_name": "Adabraka Beauty Lounge"}).
		Build()

	html, text, err := svc.generateContent(n)
	require.NoError(t, err)

	assert.Equal(t, "<b>Adabraka Beauty Lounge</b>", html)
	assert.Equal(t, "Adabraka Beauty Lounge", text)
}

func TestSendTemplateUnknownTemplate(t *testing.T) {
	svc, err := NewSMTPEmailService(validSMTPConfig())
	require.NoError(t, err)

	err = svc.SendTemplate(context.Background(), "ama.mensah@example.com", "Subject", "no-such-template", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
