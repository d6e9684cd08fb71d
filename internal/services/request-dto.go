package services

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,min=2,max=255"`
	Description     string  `json:"description" binding:"max=2000"`
	CategoryID      string  `json:"category_id" binding:"omitempty,uuid"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=480"`
	Price           float64 `json:"price" binding:"min=0"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Description     *string  `json:"description" binding:"omitempty,max=2000"`
	CategoryID      *string  `json:"category_id" binding:"omitempty,uuid"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	IsActive        *bool    `json:"is_active"`
}

type ServiceListQuery struct {
	IncludeInactive bool   `form:"include_inactive"`
	CategoryID      string `form:"category_id" binding:"omitempty,uuid"`
}
