package cancellation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"salonhub/internal/salons"
)

// fakePolicyRepo is an in-memory Repository. customerOf maps bookings
// to customers; the real implementation resolves that through a join.
type fakePolicyRepo struct {
	policies      map[uuid.UUID]*CancellationPolicy
	cancellations map[uuid.UUID]*Cancellation
	customerOf    map[uuid.UUID]uuid.UUID
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{
		policies:      make(map[uuid.UUID]*CancellationPolicy),
		cancellations: make(map[uuid.UUID]*Cancellation),
		customerOf:    make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakePolicyRepo) CreatePolicy(ctx context.Context, policy *CancellationPolicy) error {
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	policy.CreatedAt = time.Now()
	f.policies[policy.SalonID] = policy
	return nil
}

func (f *fakePolicyRepo) GetPolicyBySalonID(ctx context.Context, salonID uuid.UUID) (*CancellationPolicy, error) {
	policy, ok := f.policies[salonID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *policy
	return &clone, nil
}

func (f *fakePolicyRepo) UpdatePolicy(ctx context.Context, policy *CancellationPolicy) error {
	if _, ok := f.policies[policy.SalonID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *policy
	f.policies[policy.SalonID] = &clone
	return nil
}

func (f *fakePolicyRepo) CreateCancellation(ctx context.Context, cancellation *Cancellation) error {
	if cancellation.ID == uuid.Nil {
		cancellation.ID = uuid.New()
	}
	cancellation.CreatedAt = time.Now()
	f.cancellations[cancellation.BookingID] = cancellation
	return nil
}

func (f *fakePolicyRepo) GetCancellationByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	c, ok := f.cancellations[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakePolicyRepo) GetCancellationForCustomer(ctx context.Context, id uuid.UUID, customerID uuid.UUID) (*Cancellation, error) {
	for _, c := range f.cancellations {
		if c.ID == id && f.customerOf[c.BookingID] == customerID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepo) GetCancellationsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Cancellation, error) {
	var out []Cancellation
	for _, c := range f.cancellations {
		if f.customerOf[c.BookingID] == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// fakeSalonRepo fakes the subset of salons.Repository the policy flow
// touches. Calling anything beyond GetByID panics via the embedded nil.
type fakeSalonRepo struct {
	salons.Repository
	byID map[uuid.UUID]*salons.Salon
}

func newFakeSalonRepo() *fakeSalonRepo {
	return &fakeSalonRepo{byID: make(map[uuid.UUID]*salons.Salon)}
}

func (f *fakeSalonRepo) add(salon *salons.Salon) *salons.Salon {
	if salon.ID == uuid.Nil {
		salon.ID = uuid.New()
	}
	f.byID[salon.ID] = salon
	return salon
}

func (f *fakeSalonRepo) GetByID(ctx context.Context, id uuid.UUID) (*salons.Salon, error) {
	salon, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *salon
	return &clone, nil
}

type cancellationFixture struct {
	repo      *fakePolicyRepo
	salonRepo *fakeSalonRepo
	svc       Service
}

func newCancellationFixture() *cancellationFixture {
	f := &cancellationFixture{
		repo:      newFakePolicyRepo(),
		salonRepo: newFakeSalonRepo(),
	}
	f.svc = NewService(f.repo, f.salonRepo, 24*time.Hour)
	return f
}

func (f *cancellationFixture) seedPolicy(salonID uuid.UUID, allow bool, cutoffHours int, feeType string, feeAmount float64) *CancellationPolicy {
	policy := &CancellationPolicy{
		ID:                   uuid.New(),
		SalonID:              salonID,
		AllowCancellation:    allow,
		CutoffHours:          cutoffHours,
		FeeType:              feeType,
		FeeAmount:            feeAmount,
		RefundProcessingDays: 5,
	}
	f.repo.policies[salonID] = policy
	return policy
}

func boolPtr(b bool) *bool { return &b }

func TestCalculateFee(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name       string
		feeType    string
		feeAmount  float64
		totalPrice float64
		wantFee    float64
		wantRefund float64
	}{
		{"no fee policy", "NONE", 0, 200, 0, 200},
		{"fixed fee", "FIXED", 50, 200, 50, 150},
		{"fixed fee above the total is capped", "FIXED", 300, 200, 200, 0},
		{"percentage fee", "PERCENTAGE", 10, 55, 5.50, 49.50},
		{"full percentage", "PERCENTAGE", 100, 80, 80, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCancellationFixture()
			salonID := uuid.New()
			f.seedPolicy(salonID, true, 24, tc.feeType, tc.feeAmount)

			fee, refund, err := f.svc.CalculateFee(ctx, salonID, tc.totalPrice)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantFee, fee, 1e-9)
			assert.InDelta(t, tc.wantRefund, refund, 1e-9)
		})
	}

	t.Run("salon without a policy cancels free of charge", func(t *testing.T) {
		f := newCancellationFixture()

		fee, refund, err := f.svc.CalculateFee(ctx, uuid.New(), 120)
		require.NoError(t, err)
		assert.Zero(t, fee)
		assert.Equal(t, 120.0, refund)
	})

	t.Run("unrecognized fee type", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, true, 24, "TIERED", 10)

		_, _, err := f.svc.CalculateFee(ctx, salonID, 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown fee type")
	})
}

func TestValidateEligibility(t *testing.T) {
	ctx := context.Background()

	t.Run("cancellations disabled by the salon", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, false, 24, "NONE", 0)

		err := f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(72*time.Hour))
		require.ErrorIs(t, err, ErrCancellationDisabled)
	})

	t.Run("inside the cutoff window", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, true, 24, "NONE", 0)

		err := f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(48*time.Hour))
		require.NoError(t, err)
	})

	t.Run("past the cutoff", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, true, 24, "NONE", 0)

		err := f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(12*time.Hour))
		require.ErrorIs(t, err, ErrCutoffPassed)
	})

	t.Run("salon without a policy uses the default cutoff", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()

		require.NoError(t, f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(48*time.Hour)))
		require.ErrorIs(t, f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(12*time.Hour)), ErrCutoffPassed)
	})

	t.Run("zero cutoff allows cancellation until the appointment", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, true, 0, "NONE", 0)

		require.NoError(t, f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(time.Hour)))
		require.ErrorIs(t, f.svc.ValidateEligibility(ctx, salonID, time.Now().Add(-time.Minute)), ErrCutoffPassed)
	})
}

func TestUpsertPolicy(t *testing.T) {
	ctx := context.Background()

	validReq := func() PolicyRequest {
		return PolicyRequest{
			AllowCancellation:    boolPtr(true),
			CutoffHours:          48,
			FeeType:              "FIXED",
			FeeAmount:            25,
			RefundProcessingDays: 7,
		}
	}

	t.Run("unknown salon", func(t *testing.T) {
		f := newCancellationFixture()
		_, err := f.svc.UpsertPolicy(ctx, uuid.New(), uuid.New(), validReq())
		require.ErrorIs(t, err, salons.ErrSalonNotFound)
	})

	t.Run("only the salon owner may configure the policy", func(t *testing.T) {
		f := newCancellationFixture()
		salon := f.salonRepo.add(&salons.Salon{OwnerID: uuid.New(), Name: "Adabraka Beauty Lounge"})

		_, err := f.svc.UpsertPolicy(ctx, salon.ID, uuid.New(), validReq())
		require.ErrorIs(t, err, salons.ErrNotSalonOwner)
	})

	t.Run("fixed fee must be positive", func(t *testing.T) {
		f := newCancellationFixture()
		salon := f.salonRepo.add(&salons.Salon{OwnerID: uuid.New(), Name: "Adabraka Beauty Lounge"})

		req := validReq()
		req.FeeAmount = 0
		_, err := f.svc.UpsertPolicy(ctx, salon.ID, salon.OwnerID, req)
		require.ErrorIs(t, err, ErrInvalidFee)
	})

	t.Run("percentage fee cannot exceed 100", func(t *testing.T) {
		f := newCancellationFixture()
		salon := f.salonRepo.add(&salons.Salon{OwnerID: uuid.New(), Name: "Adabraka Beauty Lounge"})

		req := validReq()
		req.FeeType = "PERCENTAGE"
		req.FeeAmount = 150
		_, err := f.svc.UpsertPolicy(ctx, salon.ID, salon.OwnerID, req)
		require.ErrorIs(t, err, ErrInvalidFee)
	})

	t.Run("creates a policy for a salon without one", func(t *testing.T) {
		f := newCancellationFixture()
		salon := f.salonRepo.add(&salons.Salon{OwnerID: uuid.New(), Name: "Adabraka Beauty Lounge"})

		policy, err := f.svc.UpsertPolicy(ctx, salon.ID, salon.OwnerID, validReq())
		require.NoError(t, err)

		assert.Equal(t, salon.ID, policy.SalonID)
		assert.True(t, policy.AllowCancellation)
		assert.Equal(t, 48, policy.CutoffHours)
		assert.Equal(t, "FIXED", policy.FeeType)
		assert.Equal(t, 25.0, policy.FeeAmount)
		assert.Equal(t, 7, policy.RefundProcessingDays)

		stored, err := f.repo.GetPolicyBySalonID(ctx, salon.ID)
		require.NoError(t, err)
		assert.Equal(t, policy.ID, stored.ID)
	})

	t.Run("replaces an existing policy in place", func(t *testing.T) {
		f := newCancellationFixture()
		salon := f.salonRepo.add(&salons.Salon{OwnerID: uuid.New(), Name: "Adabraka Beauty Lounge"})
		original := f.seedPolicy(salon.ID, true, 24, "NONE", 0)

		req := PolicyRequest{
			AllowCancellation:    boolPtr(false),
			CutoffHours:          72,
			FeeType:              "PERCENTAGE",
			FeeAmount:            15,
			RefundProcessingDays: 10,
		}
		policy, err := f.svc.UpsertPolicy(ctx, salon.ID, salon.OwnerID, req)
		require.NoError(t, err)

		assert.Equal(t, original.ID, policy.ID, "the row is replaced, not duplicated")
		assert.False(t, policy.AllowCancellation)
		assert.Equal(t, 72, policy.CutoffHours)
		assert.Equal(t, "PERCENTAGE", policy.FeeType)
		assert.Equal(t, 15.0, policy.FeeAmount)

		stored, err := f.repo.GetPolicyBySalonID(ctx, salon.ID)
		require.NoError(t, err)
		assert.Equal(t, 72, stored.CutoffHours)
	})
}

func TestRecordCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("writes a processed audit record", func(t *testing.T) {
		f := newCancellationFixture()
		bookingID := uuid.New()

		record, err := f.svc.RecordCancellation(ctx, bookingID, 5.50, 49.50, "change of plans", CancelledByCustomer)
		require.NoError(t, err)

		assert.Equal(t, bookingID, record.BookingID)
		assert.InDelta(t, 5.50, record.CancellationFee, 1e-9)
		assert.InDelta(t, 49.50, record.RefundAmount, 1e-9)
		assert.Equal(t, "change of plans", record.Reason)
		assert.Equal(t, CancelledByCustomer, record.CancelledBy)
		assert.Equal(t, "PROCESSED", record.Status)
		require.NotNil(t, record.ProcessedAt)
		assert.False(t, record.RequestedAt.IsZero())
	})

	t.Run("one record per booking", func(t *testing.T) {
		f := newCancellationFixture()
		bookingID := uuid.New()

		_, err := f.svc.RecordCancellation(ctx, bookingID, 0, 0, "", CancelledBySystem)
		require.NoError(t, err)

		_, err = f.svc.RecordCancellation(ctx, bookingID, 0, 0, "", CancelledByCustomer)
		require.ErrorIs(t, err, ErrAlreadyRecorded)
	})
}

func TestGetPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown salon", func(t *testing.T) {
		f := newCancellationFixture()
		_, err := f.svc.GetPolicy(ctx, uuid.New())
		require.ErrorIs(t, err, ErrPolicyNotFound)
	})

	t.Run("configured salon", func(t *testing.T) {
		f := newCancellationFixture()
		salonID := uuid.New()
		f.seedPolicy(salonID, true, 48, "FIXED", 25)

		policy, err := f.svc.GetPolicy(ctx, salonID)
		require.NoError(t, err)
		assert.Equal(t, 48, policy.CutoffHours)
	})
}

func TestCustomerCancellationViews(t *testing.T) {
	ctx := context.Background()

	f := newCancellationFixture()
	customerID := uuid.New()
	bookingID := uuid.New()
	f.repo.customerOf[bookingID] = customerID

	record, err := f.svc.RecordCancellation(ctx, bookingID, 0, 55, "stylist unavailable", CancelledByVendor)
	require.NoError(t, err)

	t.Run("owner can fetch the record", func(t *testing.T) {
		got, err := f.svc.GetCancellation(ctx, record.ID, customerID)
		require.NoError(t, err)
		assert.Equal(t, record.BookingID, got.BookingID)
	})

	t.Run("other customers cannot", func(t *testing.T) {
		_, err := f.svc.GetCancellation(ctx, record.ID, uuid.New())
		require.ErrorIs(t, err, ErrCancellationNotFound)
	})

	t.Run("history lists the customer's records", func(t *testing.T) {
		list, err := f.svc.GetCustomerCancellations(ctx, customerID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "stylist unavailable", list[0].Reason)
	})
}
