package waitlist

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONMap represents a JSON map type that can be stored in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for database retrieval
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, j)
}

// GormDataType tells GORM how to handle this type
func (JSONMap) GormDataType() string {
	return "jsonb"
}

// Status represents the status of a waitlist entry
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusNotified Status = "notified"
	StatusExpired  Status = "expired"
	StatusLeft     Status = "left"
)

// NotificationType labels the audit record written when a waitlist
// entry is contacted
type NotificationType string

const (
	NotificationTypeSlotAvailable NotificationType = "SLOT_AVAILABLE"
	NotificationTypeExpired       NotificationType = "EXPIRED"
)

// WaitlistEntry is a customer's standing request to be told when a slot
// frees up at a salon inside their desired time window.
type WaitlistEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	SalonID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"salon_id"`
	WindowStart time.Time  `gorm:"not null" json:"window_start"`
	WindowEnd   time.Time  `gorm:"not null" json:"window_end"`
	Status      Status     `gorm:"type:varchar(20);check:status IN ('waiting', 'notified', 'expired', 'left');default:'waiting';index" json:"status"`
	Preferences JSONMap    `gorm:"type:jsonb" json:"preferences,omitempty"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WaitlistNotification is the audit trail of contact attempts for an
// entry. Rows are written best-effort and never block the notify flow.
type WaitlistNotification struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WaitlistEntryID uuid.UUID        `gorm:"type:uuid;not null;index" json:"waitlist_entry_id"`
	Type            NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	SlotTime        *time.Time       `json:"slot_time,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TableName sets the table name for WaitlistEntry
func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

// TableName sets the table name for WaitlistNotification
func (WaitlistNotification) TableName() string {
	return "waitlist_notifications"
}

// IsValid checks if the waitlist status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusNotified, StatusExpired, StatusLeft:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:  {StatusNotified, StatusExpired, StatusLeft},
		StatusNotified: {StatusExpired, StatusLeft},
		StatusExpired:  {}, // Terminal state
		StatusLeft:     {}, // Terminal state
	}

	allowedTargets := validTransitions[s]
	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsOpen reports whether the entry still wants to hear about slots
func (we *WaitlistEntry) IsOpen() bool {
	return we.Status == StatusWaiting || we.Status == StatusNotified
}

// Covers reports whether a freed slot start falls inside the entry's
// desired window
func (we *WaitlistEntry) Covers(slotStart time.Time) bool {
	return !slotStart.Before(we.WindowStart) && slotStart.Before(we.WindowEnd)
}
