package salons

import "time"

type SalonResponse struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"owner_id"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	Description   string               `json:"description"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	Region        string               `json:"region"`
	Country       string               `json:"country"`
	Phone         string               `json:"phone"`
	Email         string               `json:"email"`
	Website       string               `json:"website"`
	OpeningTime   string               `json:"opening_time"`
	ClosingTime   string               `json:"closing_time"`
	IsActive      bool                 `json:"is_active"`
	IsVerified    bool                 `json:"is_verified"`
	AverageRating float64              `json:"average_rating"`
	TotalReviews  int                  `json:"total_reviews"`
	IsFavorited   bool                 `json:"is_favorited"`
	Images        []SalonImageResponse `json:"images"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type SalonImageResponse struct {
	ID        string    `json:"id"`
	SalonID   string    `json:"salon_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	IsPrimary bool      `json:"is_primary"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type PaginatedSalons struct {
	Salons     []SalonResponse `json:"salons"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
