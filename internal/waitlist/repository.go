package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Entry lifecycle
	Create(ctx context.Context, entry *WaitlistEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error)
	GetOpenByCustomerAndSalon(ctx context.Context, customerID, salonID uuid.UUID) (*WaitlistEntry, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]WaitlistEntry, error)

	// Serialized state transitions
	Transition(ctx context.Context, id uuid.UUID, fn func(*WaitlistEntry) error) (*WaitlistEntry, error)

	// Matching and maintenance sweeps
	ListWaitingCovering(ctx context.Context, salonID uuid.UUID, slotStart time.Time) ([]WaitlistEntry, error)
	ListExpiredNotified(ctx context.Context, asOf time.Time, limit int) ([]WaitlistEntry, error)
	ListLapsedWaiting(ctx context.Context, asOf time.Time, limit int) ([]WaitlistEntry, error)

	// Audit trail
	CreateNotification(ctx context.Context, notification *WaitlistNotification) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *WaitlistEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetOpenByCustomerAndSalon finds the customer's live entry for a salon,
// if any. A customer holds at most one open entry per salon.
func (r *repository) GetOpenByCustomerAndSalon(ctx context.Context, customerID, salonID uuid.UUID) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("salon_id = ?", salonID).
		Where("status IN ?", []Status{StatusWaiting, StatusNotified}).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	return entries, nil
}

// Transition loads the entry FOR UPDATE, applies fn, and saves the
// result. All status changes go through here, so a slot notification
// and a customer leaving at the same moment serialize instead of
// clobbering each other.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, fn func(*WaitlistEntry) error) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			First(&entry, "id = ?", id).Error; err != nil {
			return err
		}

		if err := fn(&entry); err != nil {
			return err
		}

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWaitingCovering finds waiting entries whose requested window
// contains the given slot start. Window bounds are half-open, so a
// slot landing exactly on window_end does not match.
func (r *repository) ListWaitingCovering(ctx context.Context, salonID uuid.UUID, slotStart time.Time) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Where("status = ?", StatusWaiting).
		Where("window_start <= ? AND window_end > ?", slotStart, slotStart).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list covering entries: %w", err)
	}
	return entries, nil
}

func (r *repository) ListExpiredNotified(ctx context.Context, asOf time.Time, limit int) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusNotified).
		Where("expires_at IS NOT NULL AND expires_at <= ?", asOf).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired entries: %w", err)
	}
	return entries, nil
}

// ListLapsedWaiting finds waiting entries whose whole requested window
// is already in the past. Nothing can ever match them again.
func (r *repository) ListLapsedWaiting(ctx context.Context, asOf time.Time, limit int) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusWaiting).
		Where("window_end <= ?", asOf).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lapsed entries: %w", err)
	}
	return entries, nil
}

func (r *repository) CreateNotification(ctx context.Context, notification *WaitlistNotification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create waitlist notification: %w", err)
	}
	return nil
}
