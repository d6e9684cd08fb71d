package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the ledger row for a customer's appointment at a salon.
// TotalAmount and DurationMinutes are derived from the item snapshots at
// creation and never recomputed from the live catalog.
type Booking struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	SalonID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	ScheduledTime   time.Time  `gorm:"index;not null" json:"scheduled_time"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	TotalAmount     float64    `gorm:"not null" json:"total_amount"`
	Currency        string     `gorm:"type:varchar(3);default:'GHS'" json:"currency"`
	Status          Status     `gorm:"type:varchar(20);check:status IN ('pending', 'confirmed', 'completed', 'cancelled');default:'pending'" json:"status"`
	SpecialRequests string     `gorm:"type:text" json:"special_requests,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	ReminderSentAt  *time.Time `json:"-"`

	// Items are owned exclusively by the booking and die with it
	Items []BookingItem `json:"items,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingItem snapshots one catalog service at booking time. Price and
// duration are per unit; later catalog edits never touch these rows.
type BookingItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID       uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	ServiceID       uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
	ServiceName     string    `gorm:"not null" json:"service_name"`
	Quantity        int       `gorm:"default:1;check:quantity > 0" json:"quantity"`
	Price           float64   `gorm:"not null" json:"price"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingItem
func (BookingItem) TableName() string {
	return "booking_items"
}

// EndTime is the exclusive end of the booked window.
func (b *Booking) EndTime() time.Time {
	return b.ScheduledTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) Confirm() {
	b.Status = StatusConfirmed
	b.UpdatedAt = time.Now()
}

func (b *Booking) Complete() {
	b.Status = StatusCompleted
	b.UpdatedAt = time.Now()
}

func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}

// ToResponse converts the booking for API output. CustomerName and
// SalonName are filled by the service layer where the view needs them.
func (b *Booking) ToResponse() BookingResponse {
	items := make([]BookingItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, item.ToResponse())
	}

	return BookingResponse{
		ID:              b.ID.String(),
		CustomerID:      b.CustomerID.String(),
		SalonID:         b.SalonID.String(),
		ScheduledTime:   b.ScheduledTime,
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		Status:          b.Status.String(),
		SpecialRequests: b.SpecialRequests,
		Items:           items,
		CreatedAt:       b.CreatedAt,
		CancelledAt:     b.CancelledAt,
	}
}

// ToResponse converts the item for API output
func (i *BookingItem) ToResponse() BookingItemResponse {
	return BookingItemResponse{
		ID:              i.ID.String(),
		ServiceID:       i.ServiceID.String(),
		ServiceName:     i.ServiceName,
		Quantity:        i.Quantity,
		Price:           i.Price,
		DurationMinutes: i.DurationMinutes,
	}
}
