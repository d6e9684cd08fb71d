package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/auth"
	"salonhub/internal/bookings"
	"salonhub/internal/shared/config"
	"salonhub/internal/users"
)

// fakePaymentRepo is an in-memory Repository. reconcileCalls counts
// Reconcile invocations so tests can prove a rejected webhook never
// touched storage.
type fakePaymentRepo struct {
	byID  map[uuid.UUID]*Payment
	byRef map[string]*Payment

	access map[uuid.UUID]*AccessInfo

	createErr      error
	reconcileCalls int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		byID:   make(map[uuid.UUID]*Payment),
		byRef:  make(map[string]*Payment),
		access: make(map[uuid.UUID]*AccessInfo),
	}
}

func (f *fakePaymentRepo) add(p *Payment) *Payment {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = p
	f.byRef[p.Reference] = p
	return p
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	f.byID[payment.ID] = payment
	f.byRef[payment.Reference] = payment
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	p, ok := f.byRef[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) GetLiveByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	for _, p := range f.byID {
		if p.BookingID == bookingID && p.Status.IsLive() {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) GetSuccessfulByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	for _, p := range f.byID {
		if p.BookingID == bookingID && p.Status == StatusSuccessful {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var out []Payment
	for _, p := range f.byID {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Update(ctx context.Context, payment *Payment) error {
	stored, ok := f.byID[payment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byRef, stored.Reference)
	clone := *payment
	f.byID[clone.ID] = &clone
	f.byRef[clone.Reference] = &clone
	return nil
}

func (f *fakePaymentRepo) Reconcile(ctx context.Context, reference string, fn func(*Payment) error) (*Payment, error) {
	f.reconcileCalls++

	stored, ok := f.byRef[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	working := *stored
	if err := fn(&working); err != nil {
		return nil, err
	}
	*stored = working

	clone := working
	return &clone, nil
}

func (f *fakePaymentRepo) GetAccessInfo(ctx context.Context, bookingID uuid.UUID) (*AccessInfo, error) {
	info, ok := f.access[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *info
	return &clone, nil
}

type refundRequest struct {
	reference string
	subunits  int64
}

// fakeGateway satisfies Gateway without HTTP. The Fn fields override the
// canned success responses per test; signatureOK drives webhook
// signature checks.
type fakeGateway struct {
	initializeFn func(req InitializeRequest) (*InitializeData, error)
	verifyFn     func(reference string) (*TransactionData, json.RawMessage, error)
	refundFn     func(reference string, amountSubunits int64) (json.RawMessage, error)
	signatureOK  bool

	initCalls   []InitializeRequest
	verifyCalls []string
	refundCalls []refundRequest
}

func (f *fakeGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	f.initCalls = append(f.initCalls, req)
	if f.initializeFn != nil {
		return f.initializeFn(req)
	}
	return &InitializeData{
		AuthorizationURL: "https://checkout.paystack.com/0peioxfhpn",
		AccessCode:       "0peioxfhpn",
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, reference string) (*TransactionData, json.RawMessage, error) {
	f.verifyCalls = append(f.verifyCalls, reference)
	if f.verifyFn != nil {
		return f.verifyFn(reference)
	}
	tx := &TransactionData{ID: 4099260516, Status: "success", Reference: reference}
	return tx, json.RawMessage(`{"id":4099260516,"status":"success"}`), nil
}

func (f *fakeGateway) Refund(ctx context.Context, reference string, amountSubunits int64) (json.RawMessage, error) {
	f.refundCalls = append(f.refundCalls, refundRequest{reference: reference, subunits: amountSubunits})
	if f.refundFn != nil {
		return f.refundFn(reference, amountSubunits)
	}
	return json.RawMessage(`{"status":"processed"}`), nil
}

func (f *fakeGateway) ValidateSignature(body []byte, signature string) bool {
	return f.signatureOK
}

// fakeBookingRepo fakes the subset of bookings.Repository payment
// initiation touches. Calling anything beyond GetByID panics via the
// embedded nil.
type fakeBookingRepo struct {
	bookings.Repository
	byID map[uuid.UUID]*bookings.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeBookingRepo) add(b *bookings.Booking) *bookings.Booking {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.byID[b.ID] = b
	return b
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

type fakeUserRepo struct {
	auth.Repository
	byID map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*users.User)}
}

func (f *fakeUserRepo) add(u *users.User) *users.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byID[u.ID.String()] = u
	return u
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

type fakeLedger struct {
	confirmed []uuid.UUID
	failed    []uuid.UUID
}

func (f *fakeLedger) ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error {
	f.confirmed = append(f.confirmed, bookingID)
	return nil
}

func (f *fakeLedger) HandleFailedPayment(ctx context.Context, bookingID uuid.UUID) error {
	f.failed = append(f.failed, bookingID)
	return nil
}

type fakePaymentNotifier struct {
	events []string
}

func (f *fakePaymentNotifier) NotifyPaymentEvent(ctx context.Context, event string, payment *Payment) error {
	f.events = append(f.events, event)
	return nil
}

// paymentFixture wires a payment service over fakes for one test.
type paymentFixture struct {
	repo        *fakePaymentRepo
	bookingRepo *fakeBookingRepo
	userRepo    *fakeUserRepo
	gateway     *fakeGateway
	ledger      *fakeLedger
	notifier    *fakePaymentNotifier
	svc         Service
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		repo:        newFakePaymentRepo(),
		bookingRepo: newFakeBookingRepo(),
		userRepo:    newFakeUserRepo(),
		gateway:     &fakeGateway{signatureOK: true},
		ledger:      &fakeLedger{},
		notifier:    &fakePaymentNotifier{},
	}
	f.svc = NewService(f.repo, f.bookingRepo, f.userRepo, f.gateway, f.notifier, config.PaystackConfig{
		CallbackURL: "https://app.example.com/payments/callback",
	})
	f.svc.SetBookingLedger(f.ledger)
	return f
}

// seedBooking registers a booking and its paying customer.
func (f *paymentFixture) seedBooking(status bookings.Status, amount float64) *bookings.Booking {
	customer := f.userRepo.add(&users.User{
		FirstName: "Ama",
		LastName:  "Mensah",
		Email:     "ama.mensah@example.com",
		Role:      users.RoleCustomer,
	})
	return f.bookingRepo.add(&bookings.Booking{
		CustomerID:      customer.ID,
		SalonID:         uuid.New(),
		ScheduledTime:   time.Now().Add(48 * time.Hour),
		DurationMinutes: 45,
		TotalAmount:     amount,
		Currency:        "GHS",
		Status:          status,
	})
}

// seedPayment registers an existing payment row for a booking.
func (f *paymentFixture) seedPayment(bookingID uuid.UUID, reference string, status Status, amount float64) *Payment {
	return f.repo.add(&Payment{
		BookingID: bookingID,
		Reference: reference,
		Amount:    amount,
		Currency:  "GHS",
		Status:    status,
	})
}

// webhookBody builds a gateway push payload for a charge event.
func webhookBody(event string, reference string, amountSubunits int64) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"event": event,
		"data": map[string]interface{}{
			"id":        3029382716,
			"status":    statusForEvent(event),
			"reference": reference,
			"amount":    amountSubunits,
		},
	})
	return body
}

func statusForEvent(event string) string {
	if event == "charge.failed" {
		return "failed"
	}
	return "success"
}
