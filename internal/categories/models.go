package categories

import (
	"time"

	"github.com/google/uuid"
)

// Category is the admin-managed taxonomy salons attach their services to
// (hair, nails, spa, barbering, ...).
type Category struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	Description string     `json:"description" gorm:"size:500"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy   *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "service_categories"
}
