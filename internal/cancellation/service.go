package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/salons"
)

var (
	ErrPolicyNotFound       = errors.New("cancellation policy not found")
	ErrCancellationNotFound = errors.New("cancellation not found")
	ErrCancellationDisabled = errors.New("this salon does not accept cancellations")
	ErrCutoffPassed         = errors.New("the cancellation window for this booking has closed")
	ErrAlreadyRecorded      = errors.New("cancellation already recorded for this booking")
	ErrInvalidFee           = errors.New("invalid fee configuration")
)

// Service defines the contract for cancellation policies and records.
// The booking flow consults ValidateEligibility and CalculateFee before
// mutating booking state, then writes the audit trail via RecordCancellation.
type Service interface {
	// Policy management
	GetPolicy(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error)
	UpsertPolicy(ctx context.Context, salonID uuid.UUID, vendorID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error)

	// Rules consulted when a confirmed booking is cancelled
	ValidateEligibility(ctx context.Context, salonID uuid.UUID, scheduledTime time.Time) error
	CalculateFee(ctx context.Context, salonID uuid.UUID, totalPrice float64) (float64, float64, error) // fee, refund
	RecordCancellation(ctx context.Context, bookingID uuid.UUID, fee float64, refund float64, reason string, cancelledBy string) (*Cancellation, error)

	// Customer views
	GetCancellation(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*Cancellation, error)
	GetCustomerCancellations(ctx context.Context, customerID uuid.UUID) ([]Cancellation, error)
}

// PolicyRequest creates or replaces a salon's cancellation policy.
type PolicyRequest struct {
	AllowCancellation    *bool   `json:"allow_cancellation" binding:"required"`
	CutoffHours          int     `json:"cutoff_hours" binding:"min=0,max=720"`
	FeeType              string  `json:"fee_type" binding:"required,oneof=NONE FIXED PERCENTAGE"`
	FeeAmount            float64 `json:"fee_amount" binding:"min=0"`
	RefundProcessingDays int     `json:"refund_processing_days" binding:"min=1,max=30"`
}

type service struct {
	repo          Repository
	salonRepo     salons.Repository
	defaultCutoff time.Duration
}

// NewService creates a new cancellation service instance. defaultCutoff
// applies to salons that never configured a policy of their own.
func NewService(repo Repository, salonRepo salons.Repository, defaultCutoff time.Duration) Service {
	return &service{
		repo:          repo,
		salonRepo:     salonRepo,
		defaultCutoff: defaultCutoff,
	}
}

func (s *service) GetPolicy(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error) {
	policy, err := s.repo.GetPolicyBySalonID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation policy: %w", err)
	}
	return policy, nil
}

func (s *service) UpsertPolicy(ctx context.Context, salonID uuid.UUID, vendorID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error) {
	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if salon.OwnerID != vendorID {
		return nil, salons.ErrNotSalonOwner
	}

	if err := validateFee(req.FeeType, req.FeeAmount); err != nil {
		return nil, err
	}

	policy, err := s.repo.GetPolicyBySalonID(ctx, salonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get cancellation policy: %w", err)
		}
		policy = &CancellationPolicy{
			SalonID:              salonID,
			AllowCancellation:    *req.AllowCancellation,
			CutoffHours:          req.CutoffHours,
			FeeType:              req.FeeType,
			FeeAmount:            req.FeeAmount,
			RefundProcessingDays: req.RefundProcessingDays,
		}
		if err := s.repo.CreatePolicy(ctx, policy); err != nil {
			return nil, fmt.Errorf("failed to create cancellation policy: %w", err)
		}
		return policy, nil
	}

	policy.AllowCancellation = *req.AllowCancellation
	policy.CutoffHours = req.CutoffHours
	policy.FeeType = req.FeeType
	policy.FeeAmount = req.FeeAmount
	policy.RefundProcessingDays = req.RefundProcessingDays
	policy.UpdatedAt = time.Now()

	if err := s.repo.UpdatePolicy(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to update cancellation policy: %w", err)
	}
	return policy, nil
}

// ValidateEligibility checks whether a confirmed booking scheduled at the
// given time may still be cancelled under the salon's policy.
func (s *service) ValidateEligibility(ctx context.Context, salonID uuid.UUID, scheduledTime time.Time) error {
	policy, err := s.effectivePolicy(ctx, salonID)
	if err != nil {
		return err
	}

	if !policy.AllowCancellation {
		return ErrCancellationDisabled
	}

	cutoff := time.Duration(policy.CutoffHours) * time.Hour
	if time.Now().After(scheduledTime.Add(-cutoff)) {
		return ErrCutoffPassed
	}

	return nil
}

// CalculateFee returns the cancellation fee and the resulting refund for
// a booking total under the salon's policy.
func (s *service) CalculateFee(ctx context.Context, salonID uuid.UUID, totalPrice float64) (float64, float64, error) {
	policy, err := s.effectivePolicy(ctx, salonID)
	if err != nil {
		return 0, 0, err
	}

	var fee float64
	switch policy.FeeType {
	case "NONE":
		fee = 0
	case "FIXED":
		fee = policy.FeeAmount
	case "PERCENTAGE":
		fee = totalPrice * (policy.FeeAmount / 100)
	default:
		return 0, 0, fmt.Errorf("unknown fee type %q", policy.FeeType)
	}

	// The fee never exceeds what was actually charged
	if fee > totalPrice {
		fee = totalPrice
	}

	return fee, totalPrice - fee, nil
}

// RecordCancellation writes the audit record for a cancelled booking.
// Records are processed instantly since approval is automatic.
func (s *service) RecordCancellation(ctx context.Context, bookingID uuid.UUID, fee float64, refund float64, reason string, cancelledBy string) (*Cancellation, error) {
	_, err := s.repo.GetCancellationByBookingID(ctx, bookingID)
	if err == nil {
		return nil, ErrAlreadyRecorded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing cancellation: %w", err)
	}

	now := time.Now()
	cancellation := &Cancellation{
		BookingID:       bookingID,
		RequestedAt:     now,
		ProcessedAt:     &now,
		CancellationFee: fee,
		RefundAmount:    refund,
		Reason:          reason,
		CancelledBy:     cancelledBy,
		Status:          "PROCESSED",
	}

	if err := s.repo.CreateCancellation(ctx, cancellation); err != nil {
		return nil, fmt.Errorf("failed to create cancellation: %w", err)
	}
	return cancellation, nil
}

func (s *service) GetCancellation(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*Cancellation, error) {
	cancellation, err := s.repo.GetCancellationForCustomer(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation: %w", err)
	}
	return cancellation, nil
}

func (s *service) GetCustomerCancellations(ctx context.Context, customerID uuid.UUID) ([]Cancellation, error) {
	cancellations, err := s.repo.GetCancellationsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer cancellations: %w", err)
	}
	return cancellations, nil
}

// effectivePolicy resolves the salon's policy, synthesizing the default
// for salons that never configured one.
func (s *service) effectivePolicy(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error) {
	policy, err := s.repo.GetPolicyBySalonID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CancellationPolicy{
				SalonID:           salonID,
				AllowCancellation: true,
				CutoffHours:       int(s.defaultCutoff.Hours()),
				FeeType:           "NONE",
			}, nil
		}
		return nil, fmt.Errorf("failed to get cancellation policy: %w", err)
	}
	return policy, nil
}

func validateFee(feeType string, feeAmount float64) error {
	if feeType == "FIXED" && feeAmount <= 0 {
		return fmt.Errorf("%w: fixed fee must be greater than 0", ErrInvalidFee)
	}
	if feeType == "PERCENTAGE" && feeAmount > 100 {
		return fmt.Errorf("%w: percentage fee cannot exceed 100", ErrInvalidFee)
	}
	return nil
}
