package bookings

import "time"

type BookingItemRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=10"`
}

type CreateBookingRequest struct {
	SalonID         string               `json:"salon_id" binding:"required,uuid"`
	ScheduledTime   time.Time            `json:"scheduled_time" binding:"required"`
	SpecialRequests string               `json:"special_requests" binding:"omitempty,max=1000"`
	Items           []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type BookingListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	SalonID  string `form:"salon_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}
