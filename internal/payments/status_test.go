package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusInitiated, false},
		{StatusPendingVerification, false},
		{StatusSuccessful, true},
		{StatusFailed, false},
		{StatusRefunded, true},
	}

	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.IsTerminal())
		})
	}
}

func TestStatusIsLive(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusInitiated, true},
		{StatusPendingVerification, true},
		{StatusSuccessful, true},
		{StatusFailed, false},
		{StatusRefunded, false},
	}

	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.IsLive())
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusInitiated, StatusPendingVerification, StatusSuccessful, StatusFailed, StatusRefunded} {
		assert.True(t, s.IsValid(), s)
	}

	assert.False(t, Status("charged").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("SUCCESSFUL").IsValid(), "statuses are stored lowercase")
}
