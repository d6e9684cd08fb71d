package payments

// InitiatePaymentRequest starts (or retries) payment for a booking
type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
}

// VerifyPaymentRequest asks the gateway for the authoritative state of
// a transaction by reference
type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required,max=100"`
}
