package payments

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonhub/internal/bookings"
	"salonhub/internal/shared/config"
	"salonhub/internal/users"
)

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a checkout session for a pending booking", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)

		resp, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.NoError(t, err)

		assert.Equal(t, booking.ID.String(), resp.BookingID)
		assert.Regexp(t, `^PAY-\d{8}-[A-Z]{8}$`, resp.Reference)
		assert.Equal(t, "https://checkout.paystack.com/0peioxfhpn", resp.AuthorizationURL)
		assert.Equal(t, "0peioxfhpn", resp.AccessCode)
		assert.Equal(t, 55.00, resp.Amount)
		assert.Equal(t, "GHS", resp.Currency)

		require.Len(t, f.gateway.initCalls, 1)
		call := f.gateway.initCalls[0]
		assert.Equal(t, "ama.mensah@example.com", call.Email)
		assert.Equal(t, int64(5500), call.Amount, "gateway amounts are in pesewas")
		assert.Equal(t, resp.Reference, call.Reference)
		assert.Equal(t, "https://app.example.com/payments/callback", call.CallbackURL)
		assert.Equal(t, booking.ID.String(), call.Metadata["booking_id"])
		assert.Equal(t, booking.CustomerID.String(), call.Metadata["customer_id"])

		stored, err := f.repo.GetByReference(ctx, resp.Reference)
		require.NoError(t, err)
		assert.Equal(t, StatusInitiated, stored.Status)
		assert.False(t, stored.Retryable)
		assert.Equal(t, "0peioxfhpn", stored.AccessCode)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newPaymentFixture()
		_, err := f.svc.Initiate(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, bookings.ErrBookingNotFound)
	})

	t.Run("only the booking customer may pay", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)

		_, err := f.svc.Initiate(ctx, booking.ID, uuid.New())
		require.ErrorIs(t, err, bookings.ErrNotBookingOwner)
	})

	t.Run("confirmed booking is already paid", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusConfirmed, 55.00)

		_, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("cancelled booking is not payable", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)

		_, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.ErrorIs(t, err, ErrBookingNotPayable)
	})

	t.Run("live payment blocks a second initiation", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260820-AAAABBBB", StatusPendingVerification, 55.00)

		_, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.ErrorIs(t, err, ErrAlreadyPaid)
		assert.Empty(t, f.gateway.initCalls)
	})

	t.Run("retry reuses the failed row with a fresh reference", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		earlier := f.seedPayment(booking.ID, "PAY-20260820-AAAABBBB", StatusInitiated, 55.00)
		earlier.Retryable = true

		resp, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.NoError(t, err)

		assert.NotEqual(t, "PAY-20260820-AAAABBBB", resp.Reference, "the old reference may already be burned on the gateway side")
		assert.Equal(t, earlier.ID.String(), resp.PaymentID, "the row is reused, not duplicated")
		assert.Len(t, f.repo.byID, 1)

		stored, err := f.repo.GetByReference(ctx, resp.Reference)
		require.NoError(t, err)
		assert.False(t, stored.Retryable)
	})

	t.Run("gateway failure marks the payment retryable", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.gateway.initializeFn = func(req InitializeRequest) (*InitializeData, error) {
			return nil, ErrGateway
		}

		_, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.ErrorIs(t, err, ErrGateway)

		stored, err := f.repo.GetLiveByBooking(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusInitiated, stored.Status)
		assert.True(t, stored.Retryable)

		// The next attempt goes through the retry path and succeeds
		f.gateway.initializeFn = nil
		resp, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.String(), resp.PaymentID)
		assert.NotEqual(t, stored.Reference, resp.Reference)
	})

	t.Run("concurrent initiation race surfaces as already paid", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.repo.createErr = &pgconn.PgError{Code: "23505"}

		_, err := f.svc.Initiate(ctx, booking.ID, booking.CustomerID)
		require.ErrorIs(t, err, ErrAlreadyPaid)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown reference never reaches the gateway", func(t *testing.T) {
		f := newPaymentFixture()

		_, err := f.svc.Verify(ctx, "PAY-20260825-ZZZZZZZZ")
		require.ErrorIs(t, err, ErrPaymentNotFound)
		assert.Empty(t, f.gateway.verifyCalls)
	})

	t.Run("gateway failure leaves the payment untouched", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)
		f.gateway.verifyFn = func(reference string) (*TransactionData, json.RawMessage, error) {
			return nil, nil, ErrGateway
		}

		_, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.ErrorIs(t, err, ErrGateway)

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusInitiated, stored.Status)
		assert.Zero(t, f.repo.reconcileCalls)
	})

	t.Run("successful charge settles the payment and confirms the booking", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		resp, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusSuccessful.String(), resp.Status)
		assert.NotNil(t, resp.PaidAt)

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		require.NotNil(t, stored.GatewayTxID)
		assert.Equal(t, "4099260516", *stored.GatewayTxID)
		assert.JSONEq(t, `{"id":4099260516,"status":"success"}`, stored.RawPayload)

		assert.Equal(t, []uuid.UUID{booking.ID}, f.ledger.confirmed)
		assert.Equal(t, []string{EventPaymentSuccessful}, f.notifier.events)
	})

	t.Run("repeated verification has exactly-once side effects", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		_, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		resp, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)

		assert.Equal(t, StatusSuccessful.String(), resp.Status)
		assert.Len(t, f.ledger.confirmed, 1)
		assert.Len(t, f.notifier.events, 1)
	})

	t.Run("ongoing transaction stays in flight", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)
		f.gateway.verifyFn = func(reference string) (*TransactionData, json.RawMessage, error) {
			tx := &TransactionData{ID: 4099260516, Status: "ongoing", Reference: reference}
			return tx, json.RawMessage(`{"status":"ongoing"}`), nil
		}

		resp, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusPendingVerification.String(), resp.Status)
		assert.Empty(t, f.ledger.confirmed)
		assert.Empty(t, f.ledger.failed)
		assert.Empty(t, f.notifier.events)
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid signature fails closed", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)
		f.gateway.signatureOK = false

		// The body is not even valid JSON; a rejected signature must
		// short-circuit before any parsing or storage access
		err := f.svc.HandleWebhook(ctx, []byte(`{"event": garbage`), "deadbeef")
		require.ErrorIs(t, err, ErrInvalidSignature)

		assert.Zero(t, f.repo.reconcileCalls)
		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusInitiated, stored.Status)
	})

	t.Run("malformed payload with a valid signature", func(t *testing.T) {
		f := newPaymentFixture()
		err := f.svc.HandleWebhook(ctx, []byte(`{"event":`), "sig")
		require.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("missing transaction reference", func(t *testing.T) {
		f := newPaymentFixture()
		err := f.svc.HandleWebhook(ctx, webhookBody("charge.success", "", 5500), "sig")
		require.ErrorIs(t, err, ErrMalformedPayload)
		assert.Zero(t, f.repo.reconcileCalls)
	})

	t.Run("charge.success settles the payment", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		body := webhookBody("charge.success", "PAY-20260825-ABCDEFGH", 5500)
		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusSuccessful, stored.Status)
		assert.NotNil(t, stored.PaidAt)
		assert.Equal(t, string(body), stored.RawPayload)

		assert.Equal(t, []uuid.UUID{booking.ID}, f.ledger.confirmed)
		assert.Equal(t, []string{EventPaymentSuccessful}, f.notifier.events)
	})

	t.Run("duplicate delivery has exactly-once side effects", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		body := webhookBody("charge.success", "PAY-20260825-ABCDEFGH", 5500)
		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))
		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))

		assert.Len(t, f.ledger.confirmed, 1)
		assert.Len(t, f.notifier.events, 1)
	})

	t.Run("charge.failed flags the booking for auto-cancellation", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		body := webhookBody("charge.failed", "PAY-20260825-ABCDEFGH", 5500)
		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, stored.Status)
		assert.Nil(t, stored.PaidAt)

		assert.Equal(t, []uuid.UUID{booking.ID}, f.ledger.failed)
		assert.Equal(t, []string{EventPaymentFailed}, f.notifier.events)
	})

	t.Run("late failure never overwrites a settled payment", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)

		body := webhookBody("charge.failed", "PAY-20260825-ABCDEFGH", 5500)
		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusSuccessful, stored.Status)
		assert.Empty(t, f.ledger.failed)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("failure then success converges on successful", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusPending, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		require.NoError(t, f.svc.HandleWebhook(ctx, webhookBody("charge.failed", "PAY-20260825-ABCDEFGH", 5500), "sig"))
		_, err := f.svc.Verify(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusSuccessful, stored.Status, "a declined first attempt may still settle on retry")
		assert.Equal(t, []uuid.UUID{booking.ID}, f.ledger.failed)
		assert.Equal(t, []uuid.UUID{booking.ID}, f.ledger.confirmed)
	})

	t.Run("foreign event families are acknowledged untouched", func(t *testing.T) {
		f := newPaymentFixture()
		body, _ := json.Marshal(map[string]interface{}{
			"event": "transfer.success",
			"data":  map[string]interface{}{"reference": "TRF-123"},
		})

		require.NoError(t, f.svc.HandleWebhook(ctx, body, "sig"))
		assert.Zero(t, f.repo.reconcileCalls)
	})

	t.Run("unknown reference is acknowledged to stop redelivery", func(t *testing.T) {
		f := newPaymentFixture()

		err := f.svc.HandleWebhook(ctx, webhookBody("charge.success", "PAY-20260825-ZZZZZZZZ", 5500), "sig")
		require.NoError(t, err)
		assert.Empty(t, f.ledger.confirmed)
	})
}

func TestRefundBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("booking with no captured payment is a no-op", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

		require.NoError(t, f.svc.RefundBooking(ctx, booking.ID, 55.00))
		assert.Empty(t, f.gateway.refundCalls)
	})

	t.Run("zero amount refunds the full capture", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)

		require.NoError(t, f.svc.RefundBooking(ctx, booking.ID, 0))

		require.Len(t, f.gateway.refundCalls, 1)
		assert.Equal(t, "PAY-20260825-ABCDEFGH", f.gateway.refundCalls[0].reference)
		assert.Equal(t, int64(5500), f.gateway.refundCalls[0].subunits)

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusRefunded, stored.Status)
		assert.Equal(t, []string{EventPaymentRefunded}, f.notifier.events)
	})

	t.Run("partial refund after a cancellation fee", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)

		require.NoError(t, f.svc.RefundBooking(ctx, booking.ID, 49.50))

		require.Len(t, f.gateway.refundCalls, 1)
		assert.Equal(t, int64(4950), f.gateway.refundCalls[0].subunits)
	})

	t.Run("amount above the capture clamps to the capture", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)

		require.NoError(t, f.svc.RefundBooking(ctx, booking.ID, 500.00))

		require.Len(t, f.gateway.refundCalls, 1)
		assert.Equal(t, int64(5500), f.gateway.refundCalls[0].subunits)
	})

	t.Run("gateway failure leaves the payment successful", func(t *testing.T) {
		f := newPaymentFixture()
		booking := f.seedBooking(bookings.StatusCancelled, 55.00)
		f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)
		f.gateway.refundFn = func(reference string, amountSubunits int64) (json.RawMessage, error) {
			return nil, ErrGateway
		}

		err := f.svc.RefundBooking(ctx, booking.ID, 0)
		require.ErrorIs(t, err, ErrGateway)

		stored, err := f.repo.GetByReference(ctx, "PAY-20260825-ABCDEFGH")
		require.NoError(t, err)
		assert.Equal(t, StatusSuccessful, stored.Status)
		assert.Empty(t, f.notifier.events)
	})
}

func TestPaymentAccess(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	ownerID := uuid.New()

	seed := func() (*paymentFixture, *Payment) {
		f := newPaymentFixture()
		bookingID := uuid.New()
		payment := f.seedPayment(bookingID, "PAY-20260825-ABCDEFGH", StatusSuccessful, 55.00)
		f.repo.access[bookingID] = &AccessInfo{CustomerID: customerID, SalonOwnerID: ownerID}
		return f, payment
	}

	cases := []struct {
		name    string
		actorID uuid.UUID
		role    users.Role
		wantErr error
	}{
		{"admin sees any payment", uuid.New(), users.RoleAdmin, nil},
		{"paying customer sees it", customerID, users.RoleCustomer, nil},
		{"other customer is rejected", uuid.New(), users.RoleCustomer, ErrAccessDenied},
		{"salon owner sees it", ownerID, users.RoleVendor, nil},
		{"other vendor is rejected", uuid.New(), users.RoleVendor, ErrAccessDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, payment := seed()

			resp, err := f.svc.GetPayment(ctx, payment.ID, tc.actorID, tc.role)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payment.ID.String(), resp.ID)
		})
	}

	t.Run("unknown payment", func(t *testing.T) {
		f, _ := seed()
		_, err := f.svc.GetPayment(ctx, uuid.New(), uuid.New(), users.RoleAdmin)
		require.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("booking payment history", func(t *testing.T) {
		f, payment := seed()
		f.seedPayment(payment.BookingID, "PAY-20260820-EARLIERX", StatusFailed, 55.00)

		list, err := f.svc.GetBookingPayments(ctx, payment.BookingID, customerID, users.RoleCustomer)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("history for an unknown booking", func(t *testing.T) {
		f, _ := seed()
		_, err := f.svc.GetBookingPayments(ctx, uuid.New(), customerID, users.RoleCustomer)
		require.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestStatusFromGateway(t *testing.T) {
	cases := []struct {
		gateway string
		want    Status
	}{
		{"success", StatusSuccessful},
		{"SUCCESS", StatusSuccessful},
		{"failed", StatusFailed},
		{"abandoned", StatusFailed},
		{"reversed", StatusFailed},
		{"ongoing", StatusPendingVerification},
		{"queued", StatusPendingVerification},
		{"pending", StatusPendingVerification},
		{"", StatusPendingVerification},
		{"something-new", StatusPendingVerification},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFromGateway(tc.gateway), "gateway status %q", tc.gateway)
	}
}

func TestGeneratePaymentReference(t *testing.T) {
	pattern := regexp.MustCompile(`^PAY-\d{8}-[A-Z]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		ref, err := generatePaymentReference()
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
		assert.False(t, seen[ref], "references must not repeat: %s", ref)
		seen[ref] = true
	}
}

func TestLedgerUnwired(t *testing.T) {
	// Before SetBookingLedger both services exist independently; a
	// settled signal must not panic, only skip the booking update.
	f := newPaymentFixture()
	booking := f.seedBooking(bookings.StatusPending, 55.00)
	f.seedPayment(booking.ID, "PAY-20260825-ABCDEFGH", StatusInitiated, 55.00)

	bare := NewService(f.repo, f.bookingRepo, f.userRepo, f.gateway, f.notifier, config.PaystackConfig{})
	_, err := bare.Verify(context.Background(), "PAY-20260825-ABCDEFGH")
	require.NoError(t, err)

	stored, err := f.repo.GetByReference(context.Background(), "PAY-20260825-ABCDEFGH")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessful, stored.Status)
	assert.Empty(t, f.ledger.confirmed)
}
