package waitlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"waiting to notified", StatusWaiting, StatusNotified, true},
		{"waiting to expired", StatusWaiting, StatusExpired, true},
		{"waiting to left", StatusWaiting, StatusLeft, true},
		{"waiting to waiting", StatusWaiting, StatusWaiting, false},
		{"notified to expired", StatusNotified, StatusExpired, true},
		{"notified to left", StatusNotified, StatusLeft, true},
		{"notified back to waiting", StatusNotified, StatusWaiting, false},
		{"expired is terminal", StatusExpired, StatusWaiting, false},
		{"expired to left", StatusExpired, StatusLeft, false},
		{"left is terminal", StatusLeft, StatusNotified, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusWaiting, StatusNotified, StatusExpired, StatusLeft} {
		assert.True(t, s.IsValid(), s)
	}

	assert.False(t, Status("queued").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestEntryIsOpen(t *testing.T) {
	assert.True(t, (&WaitlistEntry{Status: StatusWaiting}).IsOpen())
	assert.True(t, (&WaitlistEntry{Status: StatusNotified}).IsOpen())
	assert.False(t, (&WaitlistEntry{Status: StatusExpired}).IsOpen())
	assert.False(t, (&WaitlistEntry{Status: StatusLeft}).IsOpen())
}

func TestEntryCovers(t *testing.T) {
	entry := &WaitlistEntry{
		WindowStart: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.True(t, entry.Covers(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)), "window start is inclusive")
	assert.True(t, entry.Covers(time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC)))
	assert.False(t, entry.Covers(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)), "window end is exclusive")
	assert.False(t, entry.Covers(time.Date(2026, 9, 1, 9, 59, 0, 0, time.UTC)))
}
