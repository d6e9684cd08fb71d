package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Keys Load reads that the tests below assert on. Setting them to the
// empty string counts as unset and restores the ambient value when the
// test ends.
var loadKeys = []string{
	"PORT", "GIN_MODE", "API_VERSION", "API_PREFIX",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_SSLMODE",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "JWT_EXPIRES_IN", "JWT_REFRESH_EXPIRES_IN",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_WINDOW_DURATION", "RATE_LIMIT_DEFAULT_REQUESTS",
	"RATE_LIMIT_PUBLIC_REQUESTS", "RATE_LIMIT_AUTH_REQUESTS", "RATE_LIMIT_BOOKING_REQUESTS",
	"RATE_LIMIT_PAYMENT_REQUESTS", "RATE_LIMIT_WEBHOOK_REQUESTS", "RATE_LIMIT_ADMIN_REQUESTS",
	"RATE_LIMIT_WHITELISTED_IPS",
	"BOOKING_DEFAULT_CURRENCY", "BOOKING_CANCELLATION_CUTOFF", "BOOKING_FAILED_PAYMENT_GRACE",
	"BOOKING_REMINDER_LEAD", "WAITLIST_ENTRY_TTL", "BOOKING_MAX_ITEMS",
	"PAYSTACK_SECRET_KEY", "PAYSTACK_PUBLIC_KEY", "PAYSTACK_WEBHOOK_SECRET",
	"PAYSTACK_BASE_URL", "PAYSTACK_CALLBACK_URL", "PAYSTACK_CLIENT_TIMEOUT",
	"KAFKA_BROKERS", "KAFKA_NOTIFICATIONS_TOPIC", "KAFKA_DLQ_TOPIC", "KAFKA_CONSUMER_GROUP", "KAFKA_ENABLED",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "FROM_EMAIL",
	"SMS_ENABLED", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER",
}

func resetEnv(t *testing.T) {
	t.Helper()
	for _, key := range loadKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, "/api", cfg.APIPrefix)

	assert.Equal(t, "host=localhost port=5432 user=salonhub_user password=salonhub_password dbname=salonhub_db sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	assert.Equal(t, 15*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshExpiresIn)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.WindowDuration)
	assert.Equal(t, 60, cfg.RateLimit.DefaultRequests)
	assert.Equal(t, 100, cfg.RateLimit.PublicRequests)
	assert.Equal(t, 10, cfg.RateLimit.AuthRequests)
	assert.Equal(t, 20, cfg.RateLimit.BookingRequests)
	assert.Equal(t, 20, cfg.RateLimit.PaymentRequests)
	assert.Equal(t, 120, cfg.RateLimit.WebhookRequests)
	assert.Equal(t, 200, cfg.RateLimit.AdminRequests)
	assert.Empty(t, cfg.RateLimit.WhitelistedIPs)

	// Booking lifecycle policy knobs
	assert.Equal(t, "GHS", cfg.Booking.DefaultCurrency)
	assert.Equal(t, 24*time.Hour, cfg.Booking.CancellationCutoff)
	assert.Equal(t, 30*time.Minute, cfg.Booking.FailedPaymentGrace)
	assert.Equal(t, 24*time.Hour, cfg.Booking.ReminderLead)
	assert.Equal(t, 72*time.Hour, cfg.Booking.WaitlistEntryTTL)
	assert.Equal(t, 10, cfg.Booking.MaxItemsPerBooking)

	assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
	assert.Equal(t, "http://localhost:3000/payments/callback", cfg.Paystack.CallbackURL)
	assert.Equal(t, 15*time.Second, cfg.Paystack.ClientTimeout)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "notifications", cfg.Kafka.Topic)
	assert.Equal(t, "notifications-dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, "salonhub-notifications", cfg.Kafka.ConsumerGroup)
	assert.True(t, cfg.Kafka.Enabled)

	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "noreply@salonhub.app", cfg.Email.FromEmail)
	assert.False(t, cfg.SMS.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	resetEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "salonhub_prod")
	t.Setenv("DB_USER", "svc_salonhub")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_SSLMODE", "require")

	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")

	// JWT lifetimes are given in whole seconds
	t.Setenv("JWT_EXPIRES_IN", "3600")

	t.Setenv("BOOKING_DEFAULT_CURRENCY", "NGN")
	t.Setenv("BOOKING_CANCELLATION_CUTOFF", "48h")
	t.Setenv("BOOKING_FAILED_PAYMENT_GRACE", "15m")
	t.Setenv("BOOKING_REMINDER_LEAD", "12h")
	t.Setenv("WAITLIST_ENTRY_TTL", "24h")
	t.Setenv("BOOKING_MAX_ITEMS", "5")

	t.Setenv("PAYSTACK_SECRET_KEY", "sk_live_abc123")
	t.Setenv("PAYSTACK_WEBHOOK_SECRET", "whsec_abc123")
	t.Setenv("PAYSTACK_CLIENT_TIMEOUT", "5s")

	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("RATE_LIMIT_WHITELISTED_IPS", "10.0.0.5, 10.0.0.6")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())

	assert.Equal(t, "host=db.internal port=5433 user=svc_salonhub password=s3cret dbname=salonhub_prod sslmode=require", cfg.Database.DSN)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)

	assert.Equal(t, time.Hour, cfg.JWT.JWTExpiresIn)

	assert.Equal(t, "NGN", cfg.Booking.DefaultCurrency)
	assert.Equal(t, 48*time.Hour, cfg.Booking.CancellationCutoff)
	assert.Equal(t, 15*time.Minute, cfg.Booking.FailedPaymentGrace)
	assert.Equal(t, 12*time.Hour, cfg.Booking.ReminderLead)
	assert.Equal(t, 24*time.Hour, cfg.Booking.WaitlistEntryTTL)
	assert.Equal(t, 5, cfg.Booking.MaxItemsPerBooking)

	assert.Equal(t, "sk_live_abc123", cfg.Paystack.SecretKey)
	assert.Equal(t, "whsec_abc123", cfg.Paystack.WebhookSecret)
	assert.Equal(t, 5*time.Second, cfg.Paystack.ClientTimeout)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers, "broker lists are comma separated and trimmed")
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.6"}, cfg.RateLimit.WhitelistedIPs)
}

func TestLoadFallsBackOnUnparseableValues(t *testing.T) {
	resetEnv(t)

	t.Setenv("BOOKING_MAX_ITEMS", "ten")
	t.Setenv("BOOKING_CANCELLATION_CUTOFF", "soon")
	t.Setenv("RATE_LIMIT_ENABLED", "definitely")
	t.Setenv("KAFKA_BROKERS", " , ,")

	cfg := Load()

	assert.Equal(t, 10, cfg.Booking.MaxItemsPerBooking)
	assert.Equal(t, 24*time.Hour, cfg.Booking.CancellationCutoff)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers, "an all-blank list falls back")
}

func TestModeHelpers(t *testing.T) {
	release := &Config{GinMode: "release", Port: "8080", APIPrefix: "/api", APIVersion: "v1"}
	assert.True(t, release.IsProduction())
	assert.False(t, release.IsDevelopment())

	debug := &Config{GinMode: "debug"}
	assert.False(t, debug.IsProduction())
	assert.True(t, debug.IsDevelopment())

	assert.Equal(t, ":8080", release.GetServerAddress())
	assert.Equal(t, "/api/v1", release.GetAPIBasePath())
}
