package cancellation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the contract for cancellation data operations
type Repository interface {
	// Policy operations
	CreatePolicy(ctx context.Context, policy *CancellationPolicy) error
	GetPolicyBySalonID(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error)
	UpdatePolicy(ctx context.Context, policy *CancellationPolicy) error

	// Cancellation record operations
	CreateCancellation(ctx context.Context, cancellation *Cancellation) error
	GetCancellationByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
	GetCancellationForCustomer(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*Cancellation, error)
	GetCancellationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Cancellation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cancellation repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePolicy(ctx context.Context, policy *CancellationPolicy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

func (r *repository) GetPolicyBySalonID(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error) {
	var policy CancellationPolicy
	err := r.db.WithContext(ctx).First(&policy, "salon_id = ?", salonID).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) UpdatePolicy(ctx context.Context, policy *CancellationPolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

func (r *repository) CreateCancellation(ctx context.Context, cancellation *Cancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}

func (r *repository) GetCancellationByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).First(&cancellation, "booking_id = ?", bookingID).Error
	if err != nil {
		return nil, err
	}
	return &cancellation, nil
}

// GetCancellationForCustomer joins through bookings so customers can only
// read records for bookings they own.
func (r *repository) GetCancellationForCustomer(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON cancellations.booking_id = bookings.id").
		Where("cancellations.id = ? AND bookings.customer_id = ?", id, customerID).
		First(&cancellation).Error
	if err != nil {
		return nil, err
	}
	return &cancellation, nil
}

func (r *repository) GetCancellationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON cancellations.booking_id = bookings.id").
		Where("bookings.customer_id = ?", customerID).
		Order("cancellations.created_at DESC").
		Find(&cancellations).Error
	if err != nil {
		return nil, err
	}
	return cancellations, nil
}
