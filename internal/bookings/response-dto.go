package bookings

import "time"

type BookingItemResponse struct {
	ID              string  `json:"id"`
	ServiceID       string  `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

type BookingResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	CustomerName    string                `json:"customer_name,omitempty"`
	SalonID         string                `json:"salon_id"`
	SalonName       string                `json:"salon_name,omitempty"`
	ScheduledTime   time.Time             `json:"scheduled_time"`
	EndTime         time.Time             `json:"end_time"`
	DurationMinutes int                   `json:"duration_minutes"`
	TotalAmount     float64               `json:"total_amount"`
	Currency        string                `json:"currency"`
	Status          string                `json:"status"`
	SpecialRequests string                `json:"special_requests,omitempty"`
	Items           []BookingItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
}

// CheckoutResponse is returned by the combined create-and-pay flow.
// Payment is nil when gateway initiation failed; the booking still
// exists and initiation can be retried through the payments endpoint.
type CheckoutResponse struct {
	Booking      BookingResponse `json:"booking"`
	Payment      *PaymentIntent  `json:"payment,omitempty"`
	PaymentError string          `json:"payment_error,omitempty"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}

type AvailabilitySlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// AvailabilityResponse is the bookable grid for one salon and day,
// bounded by the salon's business hours.
type AvailabilityResponse struct {
	SalonID     string             `json:"salon_id"`
	Date        string             `json:"date"`
	OpeningTime string             `json:"opening_time"`
	ClosingTime string             `json:"closing_time"`
	Slots       []AvailabilitySlot `json:"slots"`
}
