package bookings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"salonhub/internal/cancellation"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/shared/config"
	"salonhub/internal/shared/constants"
	"salonhub/internal/users"
	"salonhub/pkg/cache"
	"salonhub/pkg/logger"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotUnavailable   = errors.New("the requested time slot is not available")
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrSalonInactive     = errors.New("salon is not accepting bookings")
	ErrNotBookingOwner   = errors.New("booking does not belong to this user")
	ErrPastTime          = errors.New("scheduled time must be in the future")
	ErrTooManyItems      = errors.New("too many services in a single booking")
	ErrServiceMismatch   = errors.New("service does not belong to this salon")
	ErrNotElapsed        = errors.New("booking window has not finished yet")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
)

// Lifecycle events published to the notification pipeline
const (
	EventBookingCreated   = "BOOKING_CREATED"
	EventBookingConfirmed = "BOOKING_CONFIRMED"
	EventBookingCancelled = "BOOKING_CANCELLED"
	EventBookingCompleted = "BOOKING_COMPLETED"
	EventBookingReminder  = "BOOKING_REMINDER"
)

const (
	slotStep       = 30 * time.Minute
	sweepBatchSize = 100
)

// PaymentService handles gateway charges for bookings (to avoid circular dependency)
type PaymentService interface {
	InitiateForBooking(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID) (*PaymentIntent, error)
	RefundForBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error
}

// PaymentIntent is what the client needs to complete a gateway charge
type PaymentIntent struct {
	PaymentID        string  `json:"payment_id"`
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorization_url"`
	AccessCode       string  `json:"access_code"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

// WaitlistNotifier alerts waiting customers when a slot frees up (to avoid circular dependency)
type WaitlistNotifier interface {
	NotifySlotFreed(ctx context.Context, salonID uuid.UUID, slotStart time.Time) error
}

// Notifier publishes booking lifecycle events (to avoid circular dependency)
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, event string, booking *Booking) error
}

// Service owns the booking lifecycle: checkout, the status state machine,
// availability, and the maintenance sweeps the cron runner drives.
type Service interface {
	Checkout(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*CheckoutResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role) (*BookingResponse, error)
	GetCustomerBookings(ctx context.Context, customerID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetVendorBookings(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role, reason string) (*BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID, vendorID uuid.UUID) (*BookingResponse, error)

	GetAvailability(ctx context.Context, salonID uuid.UUID, date string) (*AvailabilityResponse, error)

	// Payment reconciliation hooks
	ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error
	HandleFailedPayment(ctx context.Context, bookingID uuid.UUID) error

	// Maintenance sweeps driven by the cron runner
	AutoCompleteElapsed(ctx context.Context) (int, error)
	AutoCancelExpired(ctx context.Context) (int, error)
	SendUpcomingReminders(ctx context.Context) (int, error)
}

type service struct {
	repo          Repository
	salonRepo     salons.Repository
	serviceRepo   services.Repository
	cancellations cancellation.Service
	payments      PaymentService
	waitlist      WaitlistNotifier
	notifier      Notifier
	policy        config.BookingConfig
	redisClient   *redis.Client
}

// NewService creates a new booking service instance. waitlist and
// notifier may be nil; the lifecycle then runs without those side
// effects.
func NewService(
	repo Repository,
	salonRepo salons.Repository,
	serviceRepo services.Repository,
	cancellations cancellation.Service,
	payments PaymentService,
	waitlist WaitlistNotifier,
	notifier Notifier,
	policy config.BookingConfig,
) Service {
	return &service{
		repo:          repo,
		salonRepo:     salonRepo,
		serviceRepo:   serviceRepo,
		cancellations: cancellations,
		payments:      payments,
		waitlist:      waitlist,
		notifier:      notifier,
		policy:        policy,
		redisClient:   cache.Client(),
	}
}

// Checkout creates the booking and immediately initiates payment for it.
// Initiation failure never rolls the booking back: the slot stays
// reserved in pending and the customer retries initiation against the
// same booking through the payments endpoint.
func (s *service) Checkout(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*CheckoutResponse, error) {
	booking, err := s.createBooking(ctx, customerID, req)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResponse{Booking: s.toResponses(ctx, []Booking{*booking}, false)[0]}

	intent, err := s.payments.InitiateForBooking(ctx, booking.ID, customerID)
	if err != nil {
		log.Printf("Warning: payment initiation failed for booking %s: %v", booking.ID, err)
		result.PaymentError = "Payment could not be initiated. Your booking is reserved; please retry the payment."
		return result, nil
	}
	result.Payment = intent

	return result, nil
}

func (s *service) createBooking(ctx context.Context, customerID uuid.UUID, req CreateBookingRequest) (*Booking, error) {
	salonID, err := uuid.Parse(req.SalonID)
	if err != nil {
		return nil, fmt.Errorf("invalid salon ID: %w", err)
	}

	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if !salon.IsActive {
		return nil, ErrSalonInactive
	}

	if !req.ScheduledTime.After(time.Now()) {
		return nil, ErrPastTime
	}
	if limit := s.policy.MaxItemsPerBooking; limit > 0 && len(req.Items) > limit {
		return nil, fmt.Errorf("%w: at most %d services per booking", ErrTooManyItems, limit)
	}

	items := make([]BookingItem, 0, len(req.Items))
	totalAmount := 0.0
	totalDuration := 0

	for _, itemReq := range req.Items {
		serviceID, err := uuid.Parse(itemReq.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("invalid service ID: %w", err)
		}

		svc, err := s.serviceRepo.GetByID(ctx, serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", services.ErrServiceNotFound, itemReq.ServiceID)
			}
			return nil, fmt.Errorf("failed to get service: %w", err)
		}
		if svc.SalonID != salonID {
			return nil, fmt.Errorf("%w: %s", ErrServiceMismatch, svc.Name)
		}
		if !svc.IsActive {
			return nil, fmt.Errorf("%w: %s", services.ErrServiceNotFound, itemReq.ServiceID)
		}

		quantity := itemReq.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		// Snapshot name, price and duration so later catalog edits never
		// rewrite this booking
		items = append(items, BookingItem{
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Quantity:        quantity,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})

		totalAmount += svc.Price * float64(quantity)
		totalDuration += svc.DurationMinutes * quantity
	}

	currency := s.policy.DefaultCurrency
	if currency == "" {
		currency = "GHS"
	}

	booking := &Booking{
		CustomerID:      customerID,
		SalonID:         salonID,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: totalDuration,
		TotalAmount:     totalAmount,
		Currency:        currency,
		Status:          StatusPending,
		SpecialRequests: req.SpecialRequests,
		Items:           items,
	}

	if err := s.repo.CreateWithSlotCheck(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, booking)
	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.SalonID.String(), booking.CustomerID.String())
	s.notify(ctx, EventBookingCreated, booking)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role) (*BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch role {
	case users.RoleAdmin:
	case users.RoleCustomer:
		if booking.CustomerID != actorID {
			return nil, ErrNotBookingOwner
		}
	case users.RoleVendor:
		salon, err := s.salonRepo.GetByID(ctx, booking.SalonID)
		if err != nil {
			return nil, fmt.Errorf("failed to get salon: %w", err)
		}
		if salon.OwnerID != actorID {
			return nil, ErrNotBookingOwner
		}
	default:
		return nil, ErrNotBookingOwner
	}

	resp := s.toResponses(ctx, []Booking{*booking}, true)[0]
	return &resp, nil
}

func (s *service) GetCustomerBookings(ctx context.Context, customerID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	// Only the plain default listing is cached; filtered views go
	// straight to the table
	cacheable := query.Status == "" && query.SalonID == "" && query.DateFrom == "" && query.DateTo == "" && query.Limit == 10
	cacheKey := constants.BuildUserBookingsKey(customerID.String(), query.Page)
	if cacheable {
		var cached PaginatedBookings
		if err := GetCache(ctx, s.redisClient, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	bookings, totalCount, err := s.repo.GetByCustomer(ctx, customerID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := &PaginatedBookings{
		Bookings:   s.toResponses(ctx, bookings, false),
		Page:       query.Page,
		Limit:      query.Limit,
		TotalCount: totalCount,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}

	if cacheable {
		if err := SetCache(ctx, s.redisClient, cacheKey, result, constants.TTL_USER_BOOKINGS); err != nil {
			log.Printf("Warning: failed to cache user bookings: %v", err)
		}
	}

	return result, nil
}

func (s *service) GetVendorBookings(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, totalCount, err := s.repo.GetByVendor(ctx, vendorID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor bookings: %w", err)
	}

	return &PaginatedBookings{
		Bookings:   s.toResponses(ctx, bookings, true),
		Page:       query.Page,
		Limit:      query.Limit,
		TotalCount: totalCount,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role, reason string) (*BookingResponse, error) {
	existing, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	cancelledBy := cancellation.CancelledByCustomer
	switch role {
	case users.RoleCustomer:
		if existing.CustomerID != actorID {
			return nil, ErrNotBookingOwner
		}
	case users.RoleVendor:
		salon, err := s.salonRepo.GetByID(ctx, existing.SalonID)
		if err != nil {
			return nil, fmt.Errorf("failed to get salon: %w", err)
		}
		if salon.OwnerID != actorID {
			return nil, ErrNotBookingOwner
		}
		cancelledBy = cancellation.CancelledByVendor
	default:
		return nil, ErrNotBookingOwner
	}

	var prior Status
	booking, err := s.repo.Transition(ctx, bookingID, func(b *Booking) error {
		prior = b.Status
		if !b.Status.CanTransitionTo(StatusCancelled) {
			return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, b.Status)
		}
		// Pending bookings cancel freely; confirmed ones are subject to
		// the salon's cutoff policy
		if b.Status == StatusConfirmed {
			if err := s.cancellations.ValidateEligibility(ctx, b.SalonID, b.ScheduledTime); err != nil {
				return err
			}
		}
		b.Cancel()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	var fee, refund float64
	if prior == StatusConfirmed {
		fee, refund, err = s.cancellations.CalculateFee(ctx, booking.SalonID, booking.TotalAmount)
		if err != nil {
			log.Printf("Warning: fee calculation failed for booking %s: %v", booking.ID, err)
		}
	}

	if _, err := s.cancellations.RecordCancellation(ctx, booking.ID, fee, refund, reason, cancelledBy); err != nil {
		log.Printf("Warning: failed to record cancellation for booking %s: %v", booking.ID, err)
	}

	// Refund initiation is best-effort at this point; the payment side
	// logs failures and support can replay the gateway call
	if prior == StatusConfirmed && refund > 0 {
		if err := s.payments.RefundForBooking(ctx, booking.ID, refund); err != nil {
			log.Printf("Warning: refund initiation failed for booking %s: %v", booking.ID, err)
		}
	}

	s.afterCancellation(ctx, booking)

	if full, err := s.repo.GetByID(ctx, booking.ID); err == nil {
		booking = full
	}
	resp := s.toResponses(ctx, []Booking{*booking}, false)[0]
	return &resp, nil
}

func (s *service) CompleteBooking(ctx context.Context, bookingID uuid.UUID, vendorID uuid.UUID) (*BookingResponse, error) {
	existing, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	salon, err := s.salonRepo.GetByID(ctx, existing.SalonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if salon.OwnerID != vendorID {
		return nil, ErrNotBookingOwner
	}

	booking, err := s.repo.Transition(ctx, bookingID, func(b *Booking) error {
		if !b.Status.CanTransitionTo(StatusCompleted) {
			return fmt.Errorf("%w: cannot complete a %s booking", ErrInvalidTransition, b.Status)
		}
		if time.Now().Before(b.EndTime()) {
			return ErrNotElapsed
		}
		b.Complete()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	logger.GetDefault().LogBookingStatusChange(ctx, booking.ID.String(), StatusConfirmed.String(), StatusCompleted.String())
	s.invalidateCache(ctx, booking)
	s.notify(ctx, EventBookingCompleted, booking)

	if full, err := s.repo.GetByID(ctx, booking.ID); err == nil {
		booking = full
	}
	resp := s.toResponses(ctx, []Booking{*booking}, true)[0]
	return &resp, nil
}

func (s *service) GetAvailability(ctx context.Context, salonID uuid.UUID, date string) (*AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	cacheKey := constants.BuildAvailabilityKey(salonID.String(), date)
	var cached AvailabilityResponse
	if err := GetCache(ctx, s.redisClient, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if !salon.IsActive {
		return nil, salons.ErrSalonNotFound
	}

	dayStart, err := atBusinessHour(day, salon.OpeningTime)
	if err != nil {
		return nil, fmt.Errorf("salon has invalid opening time: %w", err)
	}
	dayEnd, err := atBusinessHour(day, salon.ClosingTime)
	if err != nil {
		return nil, fmt.Errorf("salon has invalid closing time: %w", err)
	}

	intervals, err := s.repo.GetBookedIntervals(ctx, salonID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked intervals: %w", err)
	}

	now := time.Now()
	slots := make([]AvailabilitySlot, 0, int(dayEnd.Sub(dayStart)/slotStep))
	for start := dayStart; !start.Add(slotStep).After(dayEnd); start = start.Add(slotStep) {
		end := start.Add(slotStep)
		available := start.After(now)
		if available {
			for _, iv := range intervals {
				ivEnd := iv.ScheduledTime.Add(time.Duration(iv.DurationMinutes) * time.Minute)
				if start.Before(ivEnd) && end.After(iv.ScheduledTime) {
					available = false
					break
				}
			}
		}
		slots = append(slots, AvailabilitySlot{Start: start, End: end, Available: available})
	}

	result := &AvailabilityResponse{
		SalonID:     salonID.String(),
		Date:        date,
		OpeningTime: salon.OpeningTime,
		ClosingTime: salon.ClosingTime,
		Slots:       slots,
	}

	// The grid is advisory: booking creation re-checks overlap against
	// the table under a row lock
	if err := SetCache(ctx, s.redisClient, cacheKey, result, constants.TTL_AVAILABILITY); err != nil {
		log.Printf("Warning: failed to cache availability: %v", err)
	}

	return result, nil
}

// ConfirmFromPayment moves a pending booking to confirmed after its
// payment succeeded. Safe to call repeatedly: an already confirmed
// booking is left untouched, which keeps verify and webhook convergence
// idempotent end to end.
func (s *service) ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error {
	already := false
	booking, err := s.repo.Transition(ctx, bookingID, func(b *Booking) error {
		if b.Status == StatusConfirmed {
			already = true
			return nil
		}
		if !b.Status.CanTransitionTo(StatusConfirmed) {
			return fmt.Errorf("%w: cannot confirm a %s booking", ErrInvalidTransition, b.Status)
		}
		b.Confirm()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if already {
		return nil
	}

	logger.GetDefault().LogBookingStatusChange(ctx, booking.ID.String(), StatusPending.String(), StatusConfirmed.String())
	s.invalidateCache(ctx, booking)
	s.notify(ctx, EventBookingConfirmed, booking)
	return nil
}

// HandleFailedPayment evaluates auto-cancellation after a failed charge.
// While the grace window is open this is a no-op; the maintenance sweep
// re-evaluates the booking once the window has expired.
func (s *service) HandleFailedPayment(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != StatusPending {
		return nil
	}
	if s.policy.FailedPaymentGrace > 0 {
		return nil
	}

	_, err = s.autoCancel(ctx, bookingID)
	return err
}

func (s *service) AutoCompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.repo.ListElapsedConfirmed(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list elapsed bookings: %w", err)
	}

	completed := 0
	for i := range elapsed {
		id := elapsed[i].ID
		skipped := false
		booking, err := s.repo.Transition(ctx, id, func(b *Booking) error {
			if !b.Status.CanTransitionTo(StatusCompleted) || time.Now().Before(b.EndTime()) {
				skipped = true
				return nil
			}
			b.Complete()
			return nil
		})
		if err != nil {
			log.Printf("Warning: auto-complete failed for booking %s: %v", id, err)
			continue
		}
		if skipped {
			continue
		}

		completed++
		logger.GetDefault().LogBookingStatusChange(ctx, booking.ID.String(), StatusConfirmed.String(), StatusCompleted.String())
		s.invalidateCache(ctx, booking)
		s.notify(ctx, EventBookingCompleted, booking)
	}
	return completed, nil
}

func (s *service) AutoCancelExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.policy.FailedPaymentGrace)
	expired, err := s.repo.ListExpiredFailedPending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired bookings: %w", err)
	}

	cancelled := 0
	for i := range expired {
		ok, err := s.autoCancel(ctx, expired[i].ID)
		if err != nil {
			log.Printf("Warning: auto-cancel failed for booking %s: %v", expired[i].ID, err)
			continue
		}
		if ok {
			cancelled++
		}
	}
	return cancelled, nil
}

func (s *service) SendUpcomingReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	now := time.Now()
	upcoming, err := s.repo.ListUpcomingUnreminded(ctx, now, now.Add(s.policy.ReminderLead), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}

	sent := 0
	for i := range upcoming {
		b := &upcoming[i]
		if err := s.notifier.NotifyBookingEvent(ctx, EventBookingReminder, b); err != nil {
			log.Printf("Warning: reminder notification failed for booking %s: %v", b.ID, err)
			continue
		}
		if err := s.repo.MarkReminderSent(ctx, b.ID); err != nil {
			log.Printf("Warning: failed to mark reminder sent for booking %s: %v", b.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// autoCancel cancels a pending booking on behalf of the system. Returns
// false when another transition won the race and nothing was changed.
func (s *service) autoCancel(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	skipped := false
	booking, err := s.repo.Transition(ctx, bookingID, func(b *Booking) error {
		if b.Status != StatusPending {
			skipped = true
			return nil
		}
		b.Cancel()
		return nil
	})
	if err != nil {
		return false, err
	}
	if skipped {
		return false, nil
	}

	reason := "Payment failed and was not retried within the grace window"
	if _, err := s.cancellations.RecordCancellation(ctx, booking.ID, 0, 0, reason, cancellation.CancelledBySystem); err != nil {
		log.Printf("Warning: failed to record cancellation for booking %s: %v", booking.ID, err)
	}

	s.afterCancellation(ctx, booking)
	return true, nil
}

func (s *service) afterCancellation(ctx context.Context, booking *Booking) {
	if s.waitlist != nil {
		if err := s.waitlist.NotifySlotFreed(ctx, booking.SalonID, booking.ScheduledTime); err != nil {
			log.Printf("Warning: waitlist notification failed for salon %s: %v", booking.SalonID, err)
		}
	}
	s.invalidateCache(ctx, booking)
	logger.GetDefault().LogBookingCancelled(ctx, booking.ID.String(), booking.SalonID.String(), booking.CustomerID.String())
	s.notify(ctx, EventBookingCancelled, booking)
}

func (s *service) getBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *service) notify(ctx context.Context, event string, booking *Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBookingEvent(ctx, event, booking); err != nil {
		log.Printf("Warning: %s notification failed for booking %s: %v", event, booking.ID, err)
	}
}

func (s *service) invalidateCache(ctx context.Context, booking *Booking) {
	date := booking.ScheduledTime.Format("2006-01-02")
	if err := InvalidateBookingCache(ctx, s.redisClient, booking.SalonID, date, booking.CustomerID); err != nil {
		log.Printf("Warning: failed to invalidate booking cache: %v", err)
	}
}

// toResponses converts bookings for API output and resolves display
// names in one batch. Name resolution failures degrade to bare IDs
// rather than failing the request.
func (s *service) toResponses(ctx context.Context, bookings []Booking, withCustomer bool) []BookingResponse {
	salonSet := make(map[uuid.UUID]struct{}, len(bookings))
	customerSet := make(map[uuid.UUID]struct{}, len(bookings))
	for i := range bookings {
		salonSet[bookings[i].SalonID] = struct{}{}
		customerSet[bookings[i].CustomerID] = struct{}{}
	}

	salonIDs := make([]uuid.UUID, 0, len(salonSet))
	for id := range salonSet {
		salonIDs = append(salonIDs, id)
	}
	salonNames, err := s.repo.GetSalonNames(ctx, salonIDs)
	if err != nil {
		log.Printf("Warning: failed to resolve salon names: %v", err)
		salonNames = map[uuid.UUID]string{}
	}

	customerNames := map[uuid.UUID]string{}
	if withCustomer {
		customerIDs := make([]uuid.UUID, 0, len(customerSet))
		for id := range customerSet {
			customerIDs = append(customerIDs, id)
		}
		customerNames, err = s.repo.GetCustomerNames(ctx, customerIDs)
		if err != nil {
			log.Printf("Warning: failed to resolve customer names: %v", err)
			customerNames = map[uuid.UUID]string{}
		}
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		resp := bookings[i].ToResponse()
		resp.SalonName = salonNames[bookings[i].SalonID]
		if withCustomer {
			resp.CustomerName = customerNames[bookings[i].CustomerID]
		}
		responses = append(responses, resp)
	}
	return responses
}

func atBusinessHour(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
