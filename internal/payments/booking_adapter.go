package payments

import (
	"context"

	"github.com/google/uuid"

	"salonhub/internal/bookings"
)

// BookingPaymentAdapter implements the booking package's PaymentService
// interface on top of the payment service. The adapter keeps the
// dependency one way: bookings only sees its own interface.
type BookingPaymentAdapter struct {
	service Service
}

// NewBookingPaymentAdapter creates a new booking payment adapter
func NewBookingPaymentAdapter(service Service) *BookingPaymentAdapter {
	return &BookingPaymentAdapter{
		service: service,
	}
}

// InitiateForBooking opens a checkout session during the booking
// checkout flow and maps the result onto the booking package's intent
// shape.
func (a *BookingPaymentAdapter) InitiateForBooking(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID) (*bookings.PaymentIntent, error) {
	resp, err := a.service.Initiate(ctx, bookingID, customerID)
	if err != nil {
		return nil, err
	}

	return &bookings.PaymentIntent{
		PaymentID:        resp.PaymentID,
		Reference:        resp.Reference,
		AuthorizationURL: resp.AuthorizationURL,
		AccessCode:       resp.AccessCode,
		Amount:           resp.Amount,
		Currency:         resp.Currency,
	}, nil
}

// RefundForBooking refunds the captured payment when a confirmed
// booking is cancelled inside the refund window.
func (a *BookingPaymentAdapter) RefundForBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error {
	return a.service.RefundBooking(ctx, bookingID, amount)
}
