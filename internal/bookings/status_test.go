package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to pending", StatusPending, StatusPending, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"completed to confirmed", StatusCompleted, StatusConfirmed, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"cancelled to completed", StatusCancelled, StatusCompleted, false},
		{"cancelled to pending", StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestStatusOccupies(t *testing.T) {
	assert.True(t, StatusPending.Occupies())
	assert.True(t, StatusConfirmed.Occupies())
	assert.False(t, StatusCompleted.Occupies())
	assert.False(t, StatusCancelled.Occupies())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("PENDING").IsValid(), "statuses are stored lowercase")
}
