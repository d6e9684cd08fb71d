package users

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Authorization decisions compare
// against these constants only; free-form role strings are rejected at the
// boundary.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleVendor   Role = "VENDOR"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleCustomer), string(RoleVendor), string(RoleAdmin):
		return true
	default:
		return false
	}
}

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'CUSTOMER';check:role IN ('CUSTOMER','VENDOR','ADMIN')"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"index"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfile carries the optional profile data shown on account pages.
// Avatar images are hosted externally; only the URL is stored.
type UserProfile struct {
	ID               uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	AvatarURL        string     `json:"avatar_url"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	PreferredContact string     `json:"preferred_contact" gorm:"default:'email';check:preferred_contact IN ('email','sms')"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Favorite is a customer's bookmarked salon.
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_salon"`
	SalonID   uuid.UUID `json:"salon_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_salon"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
