package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/salons"
)

type Repository interface {
	// Concurrency-safe creation
	CreateWithSlotCheck(ctx context.Context, booking *Booking) error

	// Reads
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetByVendor(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetBookedIntervals(ctx context.Context, salonID uuid.UUID, from time.Time, to time.Time) ([]BookedInterval, error)

	// Serialized state transitions
	Transition(ctx context.Context, id uuid.UUID, fn func(*Booking) error) (*Booking, error)

	// Maintenance sweeps
	ListElapsedConfirmed(ctx context.Context, asOf time.Time, limit int) ([]Booking, error)
	ListExpiredFailedPending(ctx context.Context, failedBefore time.Time, limit int) ([]Booking, error)
	ListUpcomingUnreminded(ctx context.Context, from time.Time, to time.Time, limit int) ([]Booking, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	// Display names resolved without importing sibling features
	GetSalonNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	GetCustomerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// BookedInterval is the slim projection the availability grid works from.
type BookedInterval struct {
	ScheduledTime   time.Time `gorm:"column:scheduled_time"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithSlotCheck inserts the booking and its item snapshots inside
// one transaction. The salon row is locked FOR UPDATE first, so two
// overlapping requests for the same salon serialize and the loser sees
// the winner's row in the overlap count.
func (r *repository) CreateWithSlotCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the salon row to serialize bookings per salon
		var salon struct {
			ID       uuid.UUID `gorm:"column:id"`
			IsActive bool      `gorm:"column:is_active"`
		}

		err := tx.Table("salons").
			Select("id, is_active").
			Where("id = ?", booking.SalonID).
			Set("gorm:query_option", "FOR UPDATE").
			First(&salon).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return salons.ErrSalonNotFound
			}
			return fmt.Errorf("failed to lock salon: %w", err)
		}

		// 2. Re-check under the lock; the pre-validation outside could be stale
		if !salon.IsActive {
			return ErrSalonInactive
		}

		// 3. Reject overlap with any booking still occupying its window
		start := booking.ScheduledTime
		end := booking.EndTime()

		var conflicts int64
		err = tx.Model(&Booking{}).
			Where("salon_id = ?", booking.SalonID).
			Where("status IN ?", []Status{StatusPending, StatusConfirmed}).
			Where("scheduled_time < ? AND scheduled_time + (duration_minutes * interval '1 minute') > ?", end, start).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("failed to check slot availability: %w", err)
		}
		if conflicts > 0 {
			return ErrSlotUnavailable
		}

		// 4. Create booking and item snapshots together
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByCustomer(ctx context.Context, customerID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("bookings.customer_id = ?", customerID)
	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Items").
		Order("bookings.created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) GetByVendor(ctx context.Context, vendorID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Joins("JOIN salons ON salons.id = bookings.salon_id").
		Where("salons.owner_id = ?", vendorID)
	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Items").
		Order("bookings.created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) GetBookedIntervals(ctx context.Context, salonID uuid.UUID, from time.Time, to time.Time) ([]BookedInterval, error) {
	var intervals []BookedInterval
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("scheduled_time, duration_minutes").
		Where("salon_id = ?", salonID).
		Where("status IN ?", []Status{StatusPending, StatusConfirmed}).
		Where("scheduled_time < ? AND scheduled_time + (duration_minutes * interval '1 minute') > ?", to, from).
		Order("scheduled_time ASC").
		Scan(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

// Transition loads the booking FOR UPDATE, applies fn, and saves the
// result. fn returning an error rolls everything back. This is the only
// write path for status changes, so a webhook confirmation and a manual
// cancellation arriving together serialize instead of tearing state.
func (r *repository) Transition(ctx context.Context, id uuid.UUID, fn func(*Booking) error) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			First(&booking, "id = ?", id).Error; err != nil {
			return err
		}

		if err := fn(&booking); err != nil {
			return err
		}

		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListElapsedConfirmed(ctx context.Context, asOf time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusConfirmed).
		Where("scheduled_time + (duration_minutes * interval '1 minute') <= ?", asOf).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// ListExpiredFailedPending finds pending bookings whose payment failed
// before the cutoff and that have no live payment left to wait on.
// Payment status values live in the payments feature; the raw strings
// here avoid an import cycle.
func (r *repository) ListExpiredFailedPending(ctx context.Context, failedBefore time.Time, limit int) ([]Booking, error) {
	failed := r.db.Table("payments").
		Select("booking_id").
		Where("status = ?", "failed").
		Where("updated_at <= ?", failedBefore)

	live := r.db.Table("payments").
		Select("booking_id").
		Where("status NOT IN ?", []string{"failed", "refunded"})

	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Where("id IN (?)", failed).
		Where("id NOT IN (?)", live).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListUpcomingUnreminded(ctx context.Context, from time.Time, to time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusConfirmed).
		Where("scheduled_time >= ? AND scheduled_time <= ?", from, to).
		Where("reminder_sent_at IS NULL").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Update("reminder_sent_at", time.Now()).Error
}

func (r *repository) GetSalonNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID `gorm:"column:id"`
		Name string    `gorm:"column:name"`
	}
	err := r.db.WithContext(ctx).
		Table("salons").
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *repository) GetCustomerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID        uuid.UUID `gorm:"column:id"`
		FirstName string    `gorm:"column:first_name"`
		LastName  string    `gorm:"column:last_name"`
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, first_name, last_name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = strings.TrimSpace(row.FirstName + " " + row.LastName)
	}
	return names, nil
}

// applyFilters narrows a booking query. Date filters apply to the
// scheduled time, not the creation time.
func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("bookings.status = ?", filters.Status)
	}

	if filters.SalonID != "" {
		if salonID, err := uuid.Parse(filters.SalonID); err == nil {
			query = query.Where("bookings.salon_id = ?", salonID)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("bookings.scheduled_time >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Include the entire end day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("bookings.scheduled_time <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages returns the page count for a result set
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
