package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// BookingMaintainer ages bookings through their lifecycle (to avoid circular dependency)
type BookingMaintainer interface {
	AutoCompleteElapsed(ctx context.Context) (int, error)
	AutoCancelExpired(ctx context.Context) (int, error)
	SendUpcomingReminders(ctx context.Context) (int, error)
}

// WaitlistMaintainer expires stale waitlist entries (to avoid circular dependency)
type WaitlistMaintainer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// SchedulerConfig contains the cron specs for the maintenance sweeps
type SchedulerConfig struct {
	AutoCompleteSpec   string
	AutoCancelSpec     string
	ReminderSpec       string
	WaitlistExpirySpec string

	// SweepTimeout bounds a single sweep run. Sweeps are batched, so
	// anything left over is picked up by the next tick.
	SweepTimeout time.Duration
}

// DefaultSchedulerConfig returns the default sweep cadence
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		AutoCompleteSpec:   "*/5 * * * *",
		AutoCancelSpec:     "* * * * *",
		ReminderSpec:       "*/15 * * * *",
		WaitlistExpirySpec: "0 * * * *",
		SweepTimeout:       2 * time.Minute,
	}
}

// Scheduler drives the periodic sweeps behind the booking lifecycle:
// elapsed confirmations complete, failed payments age into
// cancellations, reminders go out, stale waitlist entries expire.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// sweep runs one maintenance pass and reports how many records it touched
type sweep func(ctx context.Context) (int, error)

// NewScheduler creates a scheduler with all maintenance jobs registered
func NewScheduler(bookings BookingMaintainer, waitlist WaitlistMaintainer, config *SchedulerConfig) (*Scheduler, error) {
	if config == nil {
		config = DefaultSchedulerConfig()
	}

	s := &Scheduler{
		cron:    cron.New(),
		timeout: config.SweepTimeout,
	}

	jobs := []struct {
		name string
		spec string
		run  sweep
	}{
		{"booking auto-complete", config.AutoCompleteSpec, bookings.AutoCompleteElapsed},
		{"booking auto-cancel", config.AutoCancelSpec, bookings.AutoCancelExpired},
		{"booking reminders", config.ReminderSpec, bookings.SendUpcomingReminders},
		{"waitlist expiry", config.WaitlistExpirySpec, waitlist.ExpireStale},
	}

	for _, job := range jobs {
		if err := s.register(job.name, job.spec, job.run); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) register(name, spec string, run sweep) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		processed, err := run(ctx)
		if err != nil {
			log.Printf("Job %q failed: %v", name, err)
			return
		}
		if processed > 0 {
			log.Printf("Job %q processed %d records", name, processed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register job %q with spec %q: %w", name, spec, err)
	}
	return nil
}

// Start begins running the registered jobs on their schedules
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Maintenance scheduler started")
}

// Stop halts scheduling and waits for any in-flight sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Maintenance scheduler stopped")
}
