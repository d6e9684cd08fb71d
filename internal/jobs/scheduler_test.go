package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingMaintainer struct {
	completeCalls int
	cancelCalls   int
	reminderCalls int
	deadlines     []time.Duration
	err           error
}

func (f *fakeBookingMaintainer) observeDeadline(ctx context.Context) {
	if deadline, ok := ctx.Deadline(); ok {
		f.deadlines = append(f.deadlines, time.Until(deadline))
	}
}

func (f *fakeBookingMaintainer) AutoCompleteElapsed(ctx context.Context) (int, error) {
	f.completeCalls++
	f.observeDeadline(ctx)
	return 2, f.err
}

func (f *fakeBookingMaintainer) AutoCancelExpired(ctx context.Context) (int, error) {
	f.cancelCalls++
	f.observeDeadline(ctx)
	return 1, f.err
}

func (f *fakeBookingMaintainer) SendUpcomingReminders(ctx context.Context) (int, error) {
	f.reminderCalls++
	f.observeDeadline(ctx)
	return 0, f.err
}

type fakeWaitlistMaintainer struct {
	expireCalls int
	err         error
}

func (f *fakeWaitlistMaintainer) ExpireStale(ctx context.Context) (int, error) {
	f.expireCalls++
	return 0, f.err
}

func TestDefaultSchedulerConfig(t *testing.T) {
	cfg := DefaultSchedulerConfig()

	assert.Equal(t, "*/5 * * * *", cfg.AutoCompleteSpec)
	assert.Equal(t, "* * * * *", cfg.AutoCancelSpec)
	assert.Equal(t, "*/15 * * * *", cfg.ReminderSpec)
	assert.Equal(t, "0 * * * *", cfg.WaitlistExpirySpec)
	assert.Equal(t, 2*time.Minute, cfg.SweepTimeout)
}

func TestNewSchedulerRegistersAllSweeps(t *testing.T) {
	bookings := &fakeBookingMaintainer{}
	waitlist := &fakeWaitlistMaintainer{}

	sched, err := NewScheduler(bookings, waitlist, nil)
	require.NoError(t, err)

	entries := sched.cron.Entries()
	require.Len(t, entries, 4)

	// Fire every registered job directly instead of waiting for a tick
	for _, entry := range entries {
		entry.Job.Run()
	}

	assert.Equal(t, 1, bookings.completeCalls)
	assert.Equal(t, 1, bookings.cancelCalls)
	assert.Equal(t, 1, bookings.reminderCalls)
	assert.Equal(t, 1, waitlist.expireCalls)
}

func TestNewSchedulerRejectsInvalidSpec(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.AutoCancelSpec = "every full moon"

	sched, err := NewScheduler(&fakeBookingMaintainer{}, &fakeWaitlistMaintainer{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking auto-cancel")
	assert.Nil(t, sched)
}

func TestSweepRunsUnderTimeout(t *testing.T) {
	bookings := &fakeBookingMaintainer{}
	cfg := DefaultSchedulerConfig()
	cfg.SweepTimeout = 30 * time.Second

	sched, err := NewScheduler(bookings, &fakeWaitlistMaintainer{}, cfg)
	require.NoError(t, err)

	for _, entry := range sched.cron.Entries() {
		entry.Job.Run()
	}

	require.NotEmpty(t, bookings.deadlines)
	for _, remaining := range bookings.deadlines {
		assert.Greater(t, remaining, 25*time.Second)
		assert.LessOrEqual(t, remaining, 30*time.Second)
	}
}

func TestSweepFailureIsContained(t *testing.T) {
	bookings := &fakeBookingMaintainer{err: errors.New("deadlock detected")}
	waitlist := &fakeWaitlistMaintainer{err: errors.New("deadlock detected")}

	sched, err := NewScheduler(bookings, waitlist, nil)
	require.NoError(t, err)

	// A failing sweep logs and returns; the scheduler keeps going
	for _, entry := range sched.cron.Entries() {
		entry.Job.Run()
	}

	assert.Equal(t, 1, bookings.completeCalls)
	assert.Equal(t, 1, waitlist.expireCalls)
}

func TestSchedulerStartStop(t *testing.T) {
	sched, err := NewScheduler(&fakeBookingMaintainer{}, &fakeWaitlistMaintainer{}, nil)
	require.NoError(t, err)

	sched.Start()
	sched.Stop()
}
