package payments

import "time"

// InitiateResponse carries what the client needs to complete checkout
// on the gateway's hosted page
type InitiateResponse struct {
	PaymentID        string  `json:"payment_id"`
	BookingID        string  `json:"booking_id"`
	Reference        string  `json:"reference"`
	AuthorizationURL string  `json:"authorization_url"`
	AccessCode       string  `json:"access_code"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
}

// PaymentResponse is the API view of a payment record
type PaymentResponse struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	Reference string     `json:"reference"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	Retryable bool       `json:"retryable"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
