package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/cancellation"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/shared/config"
)

// fakeBookingRepo is an in-memory Repository. Slot conflicts use the
// same half-open interval rule as the real table query.
type fakeBookingRepo struct {
	bookings map[uuid.UUID]*Booking

	// salonOwners backs GetByVendor, keyed by salon ID
	salonOwners map[uuid.UUID]uuid.UUID

	// expiredFailed is what ListExpiredFailedPending returns; the real
	// implementation joins against the payments table
	expiredFailed []Booking

	salonNames    map[uuid.UUID]string
	customerNames map[uuid.UUID]string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:      make(map[uuid.UUID]*Booking),
		salonOwners:   make(map[uuid.UUID]uuid.UUID),
		salonNames:    make(map[uuid.UUID]string),
		customerNames: make(map[uuid.UUID]string),
	}
}

func (f *fakeBookingRepo) add(b *Booking) *Booking {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeBookingRepo) CreateWithSlotCheck(ctx context.Context, booking *Booking) error {
	start := booking.ScheduledTime
	end := booking.EndTime()
	for _, existing := range f.bookings {
		if existing.SalonID != booking.SalonID || !existing.Status.Occupies() {
			continue
		}
		if start.Before(existing.EndTime()) && end.After(existing.ScheduledTime) {
			return ErrSlotUnavailable
		}
	}

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	for i := range booking.Items {
		booking.Items[i].ID = uuid.New()
		booking.Items[i].BookingID = booking.ID
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingRepo) GetByCustomer(ctx context.Context, customerID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if query.Status != "" && b.Status.String() != query.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) GetByVendor(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if f.salonOwners[b.SalonID] != vendorID {
			continue
		}
		if query.Status != "" && b.Status.String() != query.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) GetBookedIntervals(ctx context.Context, salonID uuid.UUID, from time.Time, to time.Time) ([]BookedInterval, error) {
	var intervals []BookedInterval
	for _, b := range f.bookings {
		if b.SalonID != salonID || !b.Status.Occupies() {
			continue
		}
		if b.ScheduledTime.Before(to) && b.EndTime().After(from) {
			intervals = append(intervals, BookedInterval{
				ScheduledTime:   b.ScheduledTime,
				DurationMinutes: b.DurationMinutes,
			})
		}
	}
	return intervals, nil
}

func (f *fakeBookingRepo) Transition(ctx context.Context, id uuid.UUID, fn func(*Booking) error) (*Booking, error) {
	stored, ok := f.bookings[id]
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

func (f *fakeBookingRepo) ListElapsedConfirmed(ctx context.Context, asOf time.Time, limit int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.Status == StatusConfirmed && !b.EndTime().After(asOf) {
			out = append(out, *b)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListExpiredFailedPending(ctx context.Context, failedBefore time.Time, limit int) ([]Booking, error) {
	return f.expiredFailed, nil
}

func (f *fakeBookingRepo) ListUpcomingUnreminded(ctx context.Context, from time.Time, to time.Time, limit int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.Status != StatusConfirmed || b.ReminderSentAt != nil {
			continue
		}
		if !b.ScheduledTime.Before(from) && !b.ScheduledTime.After(to) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	b.ReminderSentAt = &now
	return nil
}

func (f *fakeBookingRepo) GetSalonNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.salonNames[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (f *fakeBookingRepo) GetCustomerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.customerNames[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

// fakeSalonRepo fakes the subset of salons.Repository the booking flow
// touches. Calling anything beyond GetByID panics via the embedded nil.
type fakeSalonRepo struct {
	salons.Repository
	byID map[uuid.UUID]*salons.Salon
	err  error
}

func newFakeSalonRepo() *fakeSalonRepo {
	return &fakeSalonRepo{byID: make(map[uuid.UUID]*salons.Salon)}
}

func (f *fakeSalonRepo) add(salon *salons.Salon) *salons.Salon {
	if salon.ID == uuid.Nil {
		salon.ID = uuid.New()
	}
	f.byID[salon.ID] = salon
	return salon
}

func (f *fakeSalonRepo) GetByID(ctx context.Context, id uuid.UUID) (*salons.Salon, error) {
	if f.err != nil {
		return nil, f.err
	}
	salon, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *salon
	return &clone, nil
}

type fakeServiceRepo struct {
	services.Repository
	byID map[uuid.UUID]*services.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{byID: make(map[uuid.UUID]*services.Service)}
}

func (f *fakeServiceRepo) add(svc *services.Service) *services.Service {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	f.byID[svc.ID] = svc
	return svc
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*services.Service, error) {
	svc, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *svc
	return &clone, nil
}

type recordedCancellation struct {
	bookingID   uuid.UUID
	fee         float64
	refund      float64
	reason      string
	cancelledBy string
}

type fakeCancellationService struct {
	eligibilityErr error
	fee            float64
	refund         float64
	feeErr         error
	recorded       []recordedCancellation
}

func (f *fakeCancellationService) GetPolicy(ctx context.Context, salonID uuid.UUID) (*cancellation.CancellationPolicy, error) {
	return nil, cancellation.ErrPolicyNotFound
}

func (f *fakeCancellationService) UpsertPolicy(ctx context.Context, salonID uuid.UUID, vendorID uuid.UUID, req cancellation.PolicyRequest) (*cancellation.CancellationPolicy, error) {
	return nil, cancellation.ErrPolicyNotFound
}

func (f *fakeCancellationService) ValidateEligibility(ctx context.Context, salonID uuid.UUID, scheduledTime time.Time) error {
	return f.eligibilityErr
}

func (f *fakeCancellationService) CalculateFee(ctx context.Context, salonID uuid.UUID, totalPrice float64) (float64, float64, error) {
	if f.feeErr != nil {
		return 0, 0, f.feeErr
	}
	return f.fee, f.refund, nil
}

func (f *fakeCancellationService) RecordCancellation(ctx context.Context, bookingID uuid.UUID, fee float64, refund float64, reason string, cancelledBy string) (*cancellation.Cancellation, error) {
	f.recorded = append(f.recorded, recordedCancellation{
		bookingID:   bookingID,
		fee:         fee,
		refund:      refund,
		reason:      reason,
		cancelledBy: cancelledBy,
	})
	return &cancellation.Cancellation{BookingID: bookingID, CancellationFee: fee, RefundAmount: refund}, nil
}

func (f *fakeCancellationService) GetCancellation(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*cancellation.Cancellation, error) {
	return nil, cancellation.ErrCancellationNotFound
}

func (f *fakeCancellationService) GetCustomerCancellations(ctx context.Context, customerID uuid.UUID) ([]cancellation.Cancellation, error) {
	return nil, nil
}

type refundCall struct {
	bookingID uuid.UUID
	amount    float64
}

type fakePaymentService struct {
	intent      *PaymentIntent
	initiateErr error
	initiated   []uuid.UUID
	refunds     []refundCall
	refundErr   error
}

func (f *fakePaymentService) InitiateForBooking(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID) (*PaymentIntent, error) {
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	f.initiated = append(f.initiated, bookingID)
	return f.intent, nil
}

func (f *fakePaymentService) RefundForBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunds = append(f.refunds, refundCall{bookingID: bookingID, amount: amount})
	return nil
}

type freedSlot struct {
	salonID   uuid.UUID
	slotStart time.Time
}

type fakeWaitlistNotifier struct {
	freed []freedSlot
}

func (f *fakeWaitlistNotifier) NotifySlotFreed(ctx context.Context, salonID uuid.UUID, slotStart time.Time) error {
	f.freed = append(f.freed, freedSlot{salonID: salonID, slotStart: slotStart})
	return nil
}

type fakeBookingNotifier struct {
	events []string
	err    error
}

func (f *fakeBookingNotifier) NotifyBookingEvent(ctx context.Context, event string, booking *Booking) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// bookingFixture wires a booking service over fakes for one test.
type bookingFixture struct {
	repo        *fakeBookingRepo
	salonRepo   *fakeSalonRepo
	serviceRepo *fakeServiceRepo
	cancels     *fakeCancellationService
	payments    *fakePaymentService
	waitlist    *fakeWaitlistNotifier
	notifier    *fakeBookingNotifier
	svc         Service
}

func newBookingFixture(policy config.BookingConfig) *bookingFixture {
	f := &bookingFixture{
		repo:        newFakeBookingRepo(),
		salonRepo:   newFakeSalonRepo(),
		serviceRepo: newFakeServiceRepo(),
		cancels:     &fakeCancellationService{},
		payments: &fakePaymentService{
			intent: &PaymentIntent{
				PaymentID:        uuid.NewString(),
				Reference:        "PAY-20260825-TESTREF",
				AuthorizationURL: "https://checkout.paystack.com/test",
				AccessCode:       "access_test",
			},
		},
		waitlist: &fakeWaitlistNotifier{},
		notifier: &fakeBookingNotifier{},
	}
	f.svc = NewService(f.repo, f.salonRepo, f.serviceRepo, f.cancels, f.payments, f.waitlist, f.notifier, policy)
	return f
}

func defaultTestPolicy() config.BookingConfig {
	return config.BookingConfig{
		DefaultCurrency:    "GHS",
		CancellationCutoff: 24 * time.Hour,
		FailedPaymentGrace: 30 * time.Minute,
		ReminderLead:       24 * time.Hour,
		MaxItemsPerBooking: 10,
	}
}

func (f *bookingFixture) seedSalon(active bool) *salons.Salon {
	return f.salonRepo.add(&salons.Salon{
		OwnerID:     uuid.New(),
		Name:        "Adabraka Beauty Lounge",
		OpeningTime: "09:00",
		ClosingTime: "18:00",
		IsActive:    active,
	})
}

func (f *bookingFixture) seedService(salonID uuid.UUID, name string, price float64, minutes int) *services.Service {
	return f.serviceRepo.add(&services.Service{
		SalonID:         salonID,
		Name:            name,
		Price:           price,
		DurationMinutes: minutes,
		Currency:        "GHS",
		IsActive:        true,
	})
}
