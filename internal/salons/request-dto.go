package salons

type CreateSalonRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"required,max=500"`
	City        string `json:"city" binding:"required,max=100"`
	Region      string `json:"region" binding:"omitempty,max=100"`
	Country     string `json:"country" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	Email       string `json:"email" binding:"omitempty,email"`
	Website     string `json:"website" binding:"omitempty,url"`
	OpeningTime string `json:"opening_time" binding:"omitempty"`
	ClosingTime string `json:"closing_time" binding:"omitempty"`
}

type UpdateSalonRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Region      *string `json:"region" binding:"omitempty,max=100"`
	Country     *string `json:"country" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Website     *string `json:"website" binding:"omitempty,url"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	IsActive    *bool   `json:"is_active"`
}

type SalonListQuery struct {
	Page      int     `form:"page" binding:"omitempty,min=1"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string  `form:"search"`
	City      string  `form:"city"`
	Region    string  `form:"region"`
	MinRating float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	Service   string  `form:"service"`
	SortBy    string  `form:"sort_by" binding:"omitempty,oneof=created_at name average_rating total_reviews"`
	SortOrder string  `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type AddImageRequest struct {
	ImageURL  string `json:"image_url" binding:"required,url,max=500"`
	Caption   string `json:"caption" binding:"omitempty,max=255"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position" binding:"omitempty,min=0"`
}

type VerifySalonRequest struct {
	Verified bool `json:"verified"`
}
