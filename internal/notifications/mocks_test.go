package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"salonhub/internal/payments"
)

// Hand-rolled fakes for the notification pipeline. Kafka, SMTP and
// Twilio are all behind interfaces, so the suite swaps them for
// in-memory recorders and exercises the real builders, publishers and
// consumer handlers around them.

type bookingSend struct {
	userID    uuid.UUID
	email     string
	name      string
	phone     string
	bookingID uuid.UUID
	salonID   uuid.UUID
	notType   NotificationType
	data      map[string]interface{}
}

type paymentSend struct {
	userID    uuid.UUID
	email     string
	name      string
	paymentID uuid.UUID
	bookingID uuid.UUID
	notType   NotificationType
	data      map[string]interface{}
}

type waitlistSend struct {
	userID  uuid.UUID
	email   string
	name    string
	phone   string
	salonID uuid.UUID
	entryID uuid.UUID
	notType NotificationType
	data    map[string]interface{}
}

// fakeNotificationService records the typed sends the adapters hand it.
type fakeNotificationService struct {
	bookingSends  []bookingSend
	paymentSends  []paymentSend
	waitlistSends []waitlistSend
	err           error
}

func (f *fakeNotificationService) SendNotification(ctx context.Context, notification *Notification) error {
	return f.err
}

func (f *fakeNotificationService) SendBatchNotifications(ctx context.Context, notifications []*Notification) error {
	return f.err
}

func (f *fakeNotificationService) SendBookingNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
	bookingID, salonID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	if f.err != nil {
		return f.err
	}
	f.bookingSends = append(f.bookingSends, bookingSend{
		userID:    userID,
		email:     email,
		name:      name,
		phone:     phone,
		bookingID: bookingID,
		salonID:   salonID,
		notType:   notificationType,
		data:      templateData,
	})
	return nil
}

func (f *fakeNotificationService) SendPaymentNotification(ctx context.Context, userID uuid.UUID, email, name string,
	paymentID, bookingID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	if f.err != nil {
		return f.err
	}
	f.paymentSends = append(f.paymentSends, paymentSend{
		userID:    userID,
		email:     email,
		name:      name,
		paymentID: paymentID,
		bookingID: bookingID,
		notType:   notificationType,
		data:      templateData,
	})
	return nil
}

func (f *fakeNotificationService) SendWaitlistNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
	salonID, waitlistEntryID uuid.UUID, notificationType NotificationType,
	templateData map[string]interface{}) error {

	if f.err != nil {
		return f.err
	}
	f.waitlistSends = append(f.waitlistSends, waitlistSend{
		userID:  userID,
		email:   email,
		name:    name,
		phone:   phone,
		salonID: salonID,
		entryID: waitlistEntryID,
		notType: notificationType,
		data:    templateData,
	})
	return nil
}

func (f *fakeNotificationService) Start(ctx context.Context) error { return nil }

func (f *fakeNotificationService) Stop() error { return nil }

func (f *fakeNotificationService) HealthCheck(ctx context.Context) error { return nil }

type contactRecord struct {
	email     string
	phone     string
	firstName string
	lastName  string
}

type fakeContactService struct {
	contacts map[uuid.UUID]contactRecord
	err      error
}

func (f *fakeContactService) GetUserContact(ctx context.Context, userID uuid.UUID) (string, string, string, string, error) {
	if f.err != nil {
		return "", "", "", "", f.err
	}
	c, ok := f.contacts[userID]
	if !ok {
		return "", "", "", "", errors.New("user not found")
	}
	return c.email, c.phone, c.firstName, c.lastName, nil
}

type fakeSalonDirectory struct {
	names map[uuid.UUID]string
	err   error
}

func (f *fakeSalonDirectory) GetSalonNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type fakeAccessResolver struct {
	access map[uuid.UUID]*payments.AccessInfo
	err    error
}

func (f *fakeAccessResolver) GetAccessInfo(ctx context.Context, bookingID uuid.UUID) (*payments.AccessInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.access[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return info, nil
}

type dlqRecord struct {
	notification *Notification
	reason       string
}

// fakeProducer stands in for the Kafka producer behind both the
// publisher and the consumer's dead letter path.
type fakeProducer struct {
	published  []*Notification
	deadLetter []dlqRecord
	publishErr error
	dlqErr     error
}

func (f *fakeProducer) PublishNotification(ctx context.Context, notification *Notification) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, notification)
	return nil
}

func (f *fakeProducer) PublishBatchNotifications(ctx context.Context, notifications []*Notification) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, notifications...)
	return nil
}

func (f *fakeProducer) PublishToDeadLetter(ctx context.Context, notification *Notification, reason string) error {
	if f.dlqErr != nil {
		return f.dlqErr
	}
	f.deadLetter = append(f.deadLetter, dlqRecord{notification: notification, reason: reason})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func (f *fakeProducer) HealthCheck(ctx context.Context) error { return nil }

// fakeEmailService fails the first failures sends, then records.
type fakeEmailService struct {
	sent     []*Notification
	failures int
	err      error
}

func (f *fakeEmailService) SendNotification(ctx context.Context, notification *Notification) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp: connection reset")
	}
	if f.err != nil {
		return f.err
	}
	copied := *notification
	f.sent = append(f.sent, &copied)
	return nil
}

func (f *fakeEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	return nil
}

func (f *fakeEmailService) SendTemplate(ctx context.Context, to, subject, templateName string, data interface{}) error {
	return nil
}

type fakeSMSService struct {
	sent []*Notification
	err  error
}

func (f *fakeSMSService) SendNotification(ctx context.Context, notification *Notification) error {
	if f.err != nil {
		return f.err
	}
	copied := *notification
	f.sent = append(f.sent, &copied)
	return nil
}

func (f *fakeSMSService) SendText(ctx context.Context, to, body string) error {
	return f.err
}
