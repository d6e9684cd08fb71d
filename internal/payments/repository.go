package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository defines the contract for payment data access
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	GetLiveByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	GetSuccessfulByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error)
	Update(ctx context.Context, payment *Payment) error
	Reconcile(ctx context.Context, reference string, fn func(*Payment) error) (*Payment, error)
	GetAccessInfo(ctx context.Context, bookingID uuid.UUID) (*AccessInfo, error)
}

// AccessInfo resolves who may view payments for a booking
type AccessInfo struct {
	CustomerID   uuid.UUID
	SalonOwnerID uuid.UUID
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	var payment Payment
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetLiveByBooking returns the payment that currently counts against
// the one live payment per booking rule, if any.
func (r *repository) GetLiveByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Where("status NOT IN ?", []Status{StatusFailed, StatusRefunded}).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetSuccessfulByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Where("status = ?", StatusSuccessful).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) Update(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Reconcile loads the payment by reference under a row lock, applies fn
// and saves. All gateway signal handling goes through here so that a
// verify call and a duplicate webhook delivery serialize instead of
// interleaving their reads and writes.
func (r *repository) Reconcile(ctx context.Context, reference string, fn func(*Payment) error) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("reference = ?", reference).
			First(&payment).Error; err != nil {
			return err
		}

		if err := fn(&payment); err != nil {
			return err
		}

		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetAccessInfo(ctx context.Context, bookingID uuid.UUID) (*AccessInfo, error) {
	var info AccessInfo
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.customer_id AS customer_id, salons.owner_id AS salon_owner_id").
		Joins("JOIN salons ON salons.id = bookings.salon_id").
		Where("bookings.id = ?", bookingID).
		Take(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The partial unique index on live payments raises one when
// two initiations for the same booking race.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
