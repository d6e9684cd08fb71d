package payments

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/auth"
	"salonhub/internal/bookings"
	"salonhub/internal/shared/config"
	"salonhub/internal/users"
	"salonhub/pkg/logger"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrAlreadyPaid       = errors.New("booking already has an active payment")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrMalformedPayload  = errors.New("malformed webhook payload")
	ErrBookingNotPayable = errors.New("booking cannot be paid in its current state")
	ErrAccessDenied      = errors.New("payment does not belong to this user")
)

// Lifecycle events published to the notification pipeline
const (
	EventPaymentSuccessful = "PAYMENT_SUCCESSFUL"
	EventPaymentFailed     = "PAYMENT_FAILED"
	EventPaymentRefunded   = "PAYMENT_REFUNDED"
)

// BookingLedger is the slice of the booking service the reconciler
// drives. It is wired after construction because each side depends on
// the other at runtime.
type BookingLedger interface {
	ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error
	HandleFailedPayment(ctx context.Context, bookingID uuid.UUID) error
}

// Notifier publishes payment lifecycle events (to avoid circular dependency)
type Notifier interface {
	NotifyPaymentEvent(ctx context.Context, event string, payment *Payment) error
}

// Service reconciles local payment state with gateway-reported truth.
// Verify and HandleWebhook converge through the same idempotent update
// rule, so duplicate and out-of-order signals are harmless.
type Service interface {
	Initiate(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID) (*InitiateResponse, error)
	Verify(ctx context.Context, reference string) (*PaymentResponse, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	GetPayment(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID, role users.Role) (*PaymentResponse, error)
	GetBookingPayments(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role) ([]PaymentResponse, error)
	RefundBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error

	// SetBookingLedger wires the booking side in after both services
	// exist. Until then confirmations are logged and dropped.
	SetBookingLedger(ledger BookingLedger)
}

type service struct {
	repo        Repository
	bookingRepo bookings.Repository
	userRepo    auth.Repository
	gateway     Gateway
	notifier    Notifier
	ledger      BookingLedger
	callbackURL string
}

// NewService creates a new payment service instance. notifier may be
// nil; lifecycle events are then skipped.
func NewService(repo Repository, bookingRepo bookings.Repository, userRepo auth.Repository, gateway Gateway, notifier Notifier, cfg config.PaystackConfig) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		notifier:    notifier,
		callbackURL: cfg.CallbackURL,
	}
}

func (s *service) SetBookingLedger(ledger BookingLedger) {
	s.ledger = ledger
}

// Initiate opens a gateway checkout session for a pending booking. The
// payment row is persisted before the gateway call, so a gateway
// failure leaves it behind marked retryable and a later call picks it
// up with a fresh reference instead of creating a duplicate.
func (s *service) Initiate(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID) (*InitiateResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookings.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.CustomerID != customerID {
		return nil, bookings.ErrNotBookingOwner
	}
	if !booking.IsPending() {
		if booking.IsConfirmed() {
			return nil, ErrAlreadyPaid
		}
		return nil, ErrBookingNotPayable
	}

	payment, err := s.repo.GetLiveByBooking(ctx, bookingID)
	switch {
	case err == nil:
		if payment.Status != StatusInitiated || !payment.Retryable {
			return nil, ErrAlreadyPaid
		}
		// Retry path: the earlier gateway call failed. Reuse the row but
		// mint a fresh reference; the gateway may have registered the
		// old one and references are single use on its side.
		reference, err := generatePaymentReference()
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment reference: %w", err)
		}
		payment.Reference = reference
		if err := s.repo.Update(ctx, payment); err != nil {
			return nil, fmt.Errorf("failed to update payment: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reference, err := generatePaymentReference()
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment reference: %w", err)
		}
		payment = &Payment{
			BookingID: bookingID,
			Reference: reference,
			Amount:    booking.TotalAmount,
			Currency:  booking.Currency,
			Status:    StatusInitiated,
		}
		if err := s.repo.Create(ctx, payment); err != nil {
			if IsUniqueViolation(err) {
				// A concurrent initiation won the race
				return nil, ErrAlreadyPaid
			}
			return nil, fmt.Errorf("failed to create payment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, customerID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	data, err := s.gateway.Initialize(ctx, InitializeRequest{
		Email:       user.Email,
		Amount:      toSubunits(payment.Amount),
		Reference:   payment.Reference,
		Currency:    payment.Currency,
		CallbackURL: s.callbackURL,
		Metadata: map[string]string{
			"booking_id":  bookingID.String(),
			"customer_id": customerID.String(),
		},
	})
	if err != nil {
		payment.Retryable = true
		if updateErr := s.repo.Update(ctx, payment); updateErr != nil {
			log.Printf("Warning: failed to mark payment %s retryable: %v", payment.ID, updateErr)
		}
		logger.GetDefault().LogGatewayError(ctx, "initialize", err)
		return nil, err
	}

	payment.AccessCode = data.AccessCode
	payment.Retryable = false
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	logger.GetDefault().LogPaymentInitiated(ctx, payment.ID.String(), bookingID.String(), payment.Reference)

	return &InitiateResponse{
		PaymentID:        payment.ID.String(),
		BookingID:        bookingID.String(),
		Reference:        payment.Reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
	}, nil
}

// Verify fetches the authoritative transaction state from the gateway
// and applies it locally. Gateway failure leaves the payment exactly as
// it was.
func (s *service) Verify(ctx context.Context, reference string) (*PaymentResponse, error) {
	if _, err := s.repo.GetByReference(ctx, reference); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	tx, raw, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		logger.GetDefault().LogGatewayError(ctx, "verify", err)
		return nil, err
	}

	payment, changed, err := s.applySignal(ctx, reference, statusFromGateway(tx.Status), tx, raw)
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterSignal(ctx, payment)
	}

	return payment.ToResponse(), nil
}

// HandleWebhook applies a gateway push notification. An invalid
// signature fails closed: nothing is read from the payload and nothing
// is mutated.
func (s *service) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !s.gateway.ValidateSignature(rawBody, signature) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var target Status
	switch event.Event {
	case "charge.success":
		target = StatusSuccessful
	case "charge.failed":
		target = StatusFailed
	default:
		// Other event families (transfers, disputes) are not ours
		log.Printf("payment webhook: ignoring event %q", event.Event)
		return nil
	}

	if event.Data.Reference == "" {
		return fmt.Errorf("%w: missing transaction reference", ErrMalformedPayload)
	}

	payment, changed, err := s.applySignal(ctx, event.Data.Reference, target, &event.Data, rawBody)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown reference, likely another environment. Acknowledge
			// so the gateway stops redelivering.
			log.Printf("Warning: webhook for unknown payment reference %s", event.Data.Reference)
			return nil
		}
		return err
	}
	if changed {
		s.afterSignal(ctx, payment)
	}

	return nil
}

func (s *service) GetPayment(ctx context.Context, paymentID uuid.UUID, actorID uuid.UUID, role users.Role) (*PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if err := s.checkAccess(ctx, payment.BookingID, actorID, role); err != nil {
		return nil, err
	}

	return payment.ToResponse(), nil
}

func (s *service) GetBookingPayments(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role) ([]PaymentResponse, error) {
	if err := s.checkAccess(ctx, bookingID, actorID, role); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *payments[i].ToResponse())
	}
	return responses, nil
}

// RefundBooking sends the captured amount (or the given portion of it)
// back through the gateway. A booking with no successful payment is a
// no-op so that cancelling an unpaid booking never errors.
func (s *service) RefundBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error {
	payment, err := s.repo.GetSuccessfulByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get payment: %w", err)
	}

	if amount <= 0 || amount > payment.Amount {
		amount = payment.Amount
	}

	raw, err := s.gateway.Refund(ctx, payment.Reference, toSubunits(amount))
	if err != nil {
		logger.GetDefault().LogGatewayError(ctx, "refund", err)
		return err
	}

	// A concurrent duplicate may reach the gateway twice; the gateway
	// rejects the second refund and the row transitions once.
	refunded, err := s.repo.Reconcile(ctx, payment.Reference, func(p *Payment) error {
		if p.Status != StatusSuccessful {
			return nil
		}
		p.Status = StatusRefunded
		if len(raw) > 0 {
			p.RawPayload = string(raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}

	logger.GetDefault().LogPaymentStatusChange(ctx, payment.Reference, StatusSuccessful.String(), StatusRefunded.String())
	s.notify(ctx, EventPaymentRefunded, refunded)
	return nil
}

// applySignal is the idempotent update rule shared by Verify and
// HandleWebhook. Equal states are no-ops, terminal states (successful,
// refunded) are never overwritten, and everything else applies. The
// returned changed flag gates downstream side effects so duplicate
// deliveries have exactly-once effect.
func (s *service) applySignal(ctx context.Context, reference string, target Status, tx *TransactionData, raw []byte) (*Payment, bool, error) {
	changed := false
	payment, err := s.repo.Reconcile(ctx, reference, func(p *Payment) error {
		if p.Status == target {
			return nil
		}
		if p.Status.IsTerminal() {
			log.Printf("payment %s: ignoring %s signal, state is already %s", reference, target, p.Status)
			return nil
		}

		if tx != nil && tx.Amount != 0 && tx.Amount != toSubunits(p.Amount) {
			log.Printf("Warning: payment %s amount mismatch: gateway reported %d subunits, local %d",
				reference, tx.Amount, toSubunits(p.Amount))
		}

		prior := p.Status
		p.Status = target
		p.Retryable = false
		if tx != nil && tx.ID != 0 {
			id := strconv.FormatInt(tx.ID, 10)
			p.GatewayTxID = &id
		}
		if target == StatusSuccessful && p.PaidAt == nil {
			now := time.Now()
			p.PaidAt = &now
		}
		if len(raw) > 0 {
			p.RawPayload = string(raw)
		}
		changed = true

		logger.GetDefault().LogPaymentStatusChange(ctx, reference, prior.String(), target.String())
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return payment, changed, nil
}

// afterSignal runs the booking-side consequences of a settled signal.
// Failures here are logged, not propagated: the payment row already
// reflects gateway truth and the sweeps re-evaluate bookings later.
func (s *service) afterSignal(ctx context.Context, payment *Payment) {
	if s.ledger == nil {
		log.Printf("Warning: no booking ledger wired; dropping %s signal for booking %s", payment.Status, payment.BookingID)
		return
	}

	switch payment.Status {
	case StatusSuccessful:
		if err := s.ledger.ConfirmFromPayment(ctx, payment.BookingID); err != nil {
			log.Printf("Warning: failed to confirm booking %s after successful payment: %v", payment.BookingID, err)
		}
		s.notify(ctx, EventPaymentSuccessful, payment)
	case StatusFailed:
		if err := s.ledger.HandleFailedPayment(ctx, payment.BookingID); err != nil {
			log.Printf("Warning: failed to evaluate booking %s after failed payment: %v", payment.BookingID, err)
		}
		s.notify(ctx, EventPaymentFailed, payment)
	}
}

func (s *service) checkAccess(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, role users.Role) error {
	if role == users.RoleAdmin {
		return nil
	}

	access, err := s.repo.GetAccessInfo(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to resolve payment access: %w", err)
	}

	switch role {
	case users.RoleCustomer:
		if access.CustomerID == actorID {
			return nil
		}
	case users.RoleVendor:
		if access.SalonOwnerID == actorID {
			return nil
		}
	}
	return ErrAccessDenied
}

func (s *service) notify(ctx context.Context, event string, payment *Payment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyPaymentEvent(ctx, event, payment); err != nil {
		log.Printf("Warning: %s notification failed for payment %s: %v", event, payment.ID, err)
	}
}

type webhookEvent struct {
	Event string          `json:"event"`
	Data  TransactionData `json:"data"`
}

// statusFromGateway maps the gateway's transaction status vocabulary
// onto the local payment states.
func statusFromGateway(status string) Status {
	switch strings.ToLower(status) {
	case "success":
		return StatusSuccessful
	case "failed", "abandoned", "reversed":
		return StatusFailed
	default:
		// ongoing, queued, pending and anything unrecognized stay in
		// flight until the gateway settles
		return StatusPendingVerification
	}
}

// generatePaymentReference builds a unique gateway reference like
// PAY-20260825-XKCDQPWM
func generatePaymentReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 8)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("PAY-%s-%s", timestamp, string(randomPart)), nil
}
