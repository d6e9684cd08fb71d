package payments

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the local record of one gateway charge attempt. Amount is
// copied from the booking total at initiation and never recalculated.
// RawPayload holds the last gateway payload that changed this record,
// kept verbatim for audit.
type Payment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"booking_id"`
	Reference   string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	GatewayTxID *string    `gorm:"type:varchar(100)" json:"gateway_tx_id,omitempty"`
	AccessCode  string     `gorm:"type:varchar(100)" json:"-"`
	Amount      float64    `gorm:"not null" json:"amount"`
	Currency    string     `gorm:"type:varchar(3);default:'GHS'" json:"currency"`
	Status      Status     `gorm:"type:varchar(30);not null;default:'initiated';check:status IN ('initiated','pending_verification','successful','failed','refunded')" json:"status"`
	Retryable   bool       `gorm:"default:false" json:"retryable"`
	RawPayload  string     `gorm:"type:text" json:"-"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) IsLive() bool {
	return p.Status.IsLive()
}

func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusSuccessful
}

// ToResponse converts the payment to its API representation
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:        p.ID.String(),
		BookingID: p.BookingID.String(),
		Reference: p.Reference,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status.String(),
		Retryable: p.Retryable,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}
