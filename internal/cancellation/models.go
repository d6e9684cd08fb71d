package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// Actor values recorded on a cancellation. SYSTEM covers automatic
// cancellations such as expired unpaid bookings.
const (
	CancelledByCustomer = "CUSTOMER"
	CancelledByVendor   = "VENDOR"
	CancelledBySystem   = "SYSTEM"
)

// CancellationPolicy is the per-salon rule set consulted when a confirmed
// booking is cancelled. Salons without a row fall back to the configured
// default cutoff with no fee.
type CancellationPolicy struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SalonID              uuid.UUID `gorm:"type:uuid;unique;not null" json:"salon_id"`
	AllowCancellation    bool      `gorm:"default:true" json:"allow_cancellation"`
	CutoffHours          int       `gorm:"default:24" json:"cutoff_hours"`
	FeeType              string    `gorm:"type:varchar(20);check:fee_type IN ('NONE', 'FIXED', 'PERCENTAGE');default:'NONE'" json:"fee_type"`
	FeeAmount            float64   `gorm:"default:0" json:"fee_amount"`
	RefundProcessingDays int       `gorm:"default:5" json:"refund_processing_days"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Cancellation is the audit record written whenever a booking is
// cancelled, whoever initiated it. RefundAmount is what the payment
// side was asked to return, not a confirmation that it arrived.
type Cancellation struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID       uuid.UUID  `gorm:"type:uuid;unique;not null" json:"booking_id"`
	RequestedAt     time.Time  `json:"requested_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CancellationFee float64    `gorm:"default:0" json:"cancellation_fee"`
	RefundAmount    float64    `gorm:"default:0" json:"refund_amount"`
	Reason          string     `json:"reason"`
	CancelledBy     string     `gorm:"type:varchar(20);check:cancelled_by IN ('CUSTOMER', 'VENDOR', 'SYSTEM');default:'CUSTOMER'" json:"cancelled_by"`
	Status          string     `gorm:"type:varchar(20);check:status IN ('PENDING', 'PROCESSED', 'REJECTED');default:'PENDING'" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName sets the table name for CancellationPolicy
func (CancellationPolicy) TableName() string {
	return "cancellation_policies"
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}
