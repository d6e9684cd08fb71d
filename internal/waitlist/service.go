package waitlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonhub/internal/salons"
)

var (
	ErrEntryNotFound     = errors.New("waitlist entry not found")
	ErrAlreadyOnWaitlist = errors.New("customer is already on the waitlist for this salon")
	ErrNotEntryOwner     = errors.New("customer does not own this waitlist entry")
	ErrInvalidWindow     = errors.New("waitlist window is invalid")
	ErrEntryClosed       = errors.New("waitlist entry is already closed")
	ErrSalonInactive     = errors.New("salon is not accepting bookings")
)

// Notification event names carried on the wire.
const (
	EventSlotAvailable = "WAITLIST_SLOT_AVAILABLE"
	EventEntryExpired  = "WAITLIST_EXPIRED"
)

// NotificationService publishes waitlist alerts (to avoid circular dependency)
type NotificationService interface {
	SendWaitlistNotification(ctx context.Context, userID uuid.UUID, email, name, phone string,
		salonID, waitlistEntryID uuid.UUID, notificationType string,
		templateData map[string]interface{}) error
}

// UserService resolves customer contact details (to avoid circular dependency)
type UserService interface {
	GetUserContact(ctx context.Context, userID uuid.UUID) (email, phone, firstName, lastName string, err error)
}

type Service interface {
	// Customer operations
	Join(ctx context.Context, customerID uuid.UUID, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error)
	Leave(ctx context.Context, entryID, customerID uuid.UUID) error
	GetMyEntries(ctx context.Context, customerID uuid.UUID) ([]WaitlistEntryResponse, error)

	// Called by the booking flow when a cancellation frees a slot
	NotifySlotFreed(ctx context.Context, salonID uuid.UUID, slotStart time.Time) error

	// Background sweep over notified and lapsed entries
	ExpireStale(ctx context.Context) (int, error)
}

// ServiceConfig contains tunables for the waitlist service
type ServiceConfig struct {
	// EntryTTL is how long a notified entry stays claimable before it
	// expires and the customer has to rejoin.
	EntryTTL time.Duration

	// SweepBatchSize caps how many entries a single expiry sweep touches.
	SweepBatchSize int
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		EntryTTL:       72 * time.Hour,
		SweepBatchSize: 100,
	}
}

type service struct {
	repo          Repository
	salonRepo     salons.Repository
	notifications NotificationService
	users         UserService
	config        *ServiceConfig
}

// NewService creates a new waitlist service instance. notifications and
// users may be nil when the notification pipeline is disabled; slot
// alerts are skipped in that case and entries stay waiting.
func NewService(repo Repository, salonRepo salons.Repository, notifications NotificationService, users UserService, config *ServiceConfig) Service {
	if config == nil {
		config = DefaultServiceConfig()
	}

	return &service{
		repo:          repo,
		salonRepo:     salonRepo,
		notifications: notifications,
		users:         users,
		config:        config,
	}
}

func (s *service) Join(ctx context.Context, customerID uuid.UUID, req *JoinWaitlistRequest) (*WaitlistEntryResponse, error) {
	salonID, err := uuid.Parse(req.SalonID)
	if err != nil {
		return nil, fmt.Errorf("invalid salon ID: %w", err)
	}

	if !req.WindowStart.Before(req.WindowEnd) {
		return nil, fmt.Errorf("%w: window start must be before window end", ErrInvalidWindow)
	}
	if !req.WindowEnd.After(time.Now()) {
		return nil, fmt.Errorf("%w: window is entirely in the past", ErrInvalidWindow)
	}

	salon, err := s.salonRepo.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salons.ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	if !salon.IsActive {
		return nil, ErrSalonInactive
	}

	// One open entry per customer and salon. Widening the window means
	// leaving the old entry first.
	_, err = s.repo.GetOpenByCustomerAndSalon(ctx, customerID, salonID)
	if err == nil {
		return nil, ErrAlreadyOnWaitlist
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing entry: %w", err)
	}

	entry := &WaitlistEntry{
		CustomerID:  customerID,
		SalonID:     salonID,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Status:      StatusWaiting,
		Preferences: req.Preferences,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	log.Printf("Customer %s joined the waitlist for salon %s (window %s to %s)",
		customerID, salonID,
		entry.WindowStart.Format(time.RFC3339), entry.WindowEnd.Format(time.RFC3339))

	resp := entry.ToResponse(salon.Name)
	return &resp, nil
}

func (s *service) Leave(ctx context.Context, entryID, customerID uuid.UUID) error {
	_, err := s.repo.Transition(ctx, entryID, func(entry *WaitlistEntry) error {
		if entry.CustomerID != customerID {
			return ErrNotEntryOwner
		}
		if !entry.Status.CanTransitionTo(StatusLeft) {
			return ErrEntryClosed
		}

		entry.Status = StatusLeft
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	log.Printf("Customer %s left the waitlist (entry %s)", customerID, entryID)
	return nil
}

func (s *service) GetMyEntries(ctx context.Context, customerID uuid.UUID) ([]WaitlistEntryResponse, error) {
	entries, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(entries))
	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		name, ok := names[entry.SalonID]
		if !ok {
			name = s.salonName(ctx, entry.SalonID)
			names[entry.SalonID] = name
		}
		responses = append(responses, entry.ToResponse(name))
	}

	return responses, nil
}

// NotifySlotFreed tells every waiting customer whose window covers the
// freed slot that it is open again. Entries move to notified with a
// claim deadline; booking the slot is first come, first served.
func (s *service) NotifySlotFreed(ctx context.Context, salonID uuid.UUID, slotStart time.Time) error {
	if s.notifications == nil || s.users == nil {
		log.Printf("Waitlist: notification pipeline disabled, skipping slot alert for salon %s", salonID)
		return nil
	}

	entries, err := s.repo.ListWaitingCovering(ctx, salonID, slotStart)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	salonName := s.salonName(ctx, salonID)
	notified := 0

	for _, entry := range entries {
		now := time.Now()
		expiresAt := now.Add(s.config.EntryTTL)

		_, err := s.repo.Transition(ctx, entry.ID, func(e *WaitlistEntry) error {
			// Re-check under the lock; the entry may have been left or
			// expired since the list query.
			if !e.Status.CanTransitionTo(StatusNotified) {
				return ErrEntryClosed
			}

			e.Status = StatusNotified
			e.NotifiedAt = &now
			e.ExpiresAt = &expiresAt
			return nil
		})
		if err != nil {
			if !errors.Is(err, ErrEntryClosed) {
				log.Printf("Warning: failed to mark waitlist entry %s notified: %v", entry.ID, err)
			}
			continue
		}

		s.sendSlotAvailableNotification(ctx, &entry, salonName, slotStart, expiresAt)
		notified++
	}

	if notified > 0 {
		log.Printf("🔔 Waitlist: notified %d customers about a freed slot at salon %s (%s)",
			notified, salonID, slotStart.Format(time.RFC3339))
	}

	return nil
}

// ExpireStale closes out entries that can never be claimed: notified
// entries past their deadline and waiting entries whose whole window is
// in the past. Returns how many entries were expired.
func (s *service) ExpireStale(ctx context.Context) (int, error) {
	now := time.Now()
	expired := 0

	stale, err := s.repo.ListExpiredNotified(ctx, now, s.config.SweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired entries: %w", err)
	}
	for _, entry := range stale {
		if !s.expireEntry(ctx, entry.ID) {
			continue
		}
		expired++
		s.sendExpiredNotification(ctx, &entry)
	}

	lapsed, err := s.repo.ListLapsedWaiting(ctx, now, s.config.SweepBatchSize)
	if err != nil {
		return expired, fmt.Errorf("failed to list lapsed entries: %w", err)
	}
	for _, entry := range lapsed {
		if !s.expireEntry(ctx, entry.ID) {
			continue
		}
		// No notification for lapsed windows; there was never a slot to
		// miss.
		expired++
	}

	if expired > 0 {
		log.Printf("Waitlist: expired %d stale entries", expired)
	}

	return expired, nil
}

func (s *service) expireEntry(ctx context.Context, id uuid.UUID) bool {
	_, err := s.repo.Transition(ctx, id, func(e *WaitlistEntry) error {
		if !e.Status.CanTransitionTo(StatusExpired) {
			return ErrEntryClosed
		}
		e.Status = StatusExpired
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEntryClosed) {
			log.Printf("Warning: failed to expire waitlist entry %s: %v", id, err)
		}
		return false
	}
	return true
}

func (s *service) sendSlotAvailableNotification(ctx context.Context, entry *WaitlistEntry, salonName string, slotStart, expiresAt time.Time) {
	email, phone, firstName, lastName, err := s.users.GetUserContact(ctx, entry.CustomerID)
	if err != nil {
		log.Printf("Warning: failed to get contact for customer %s: %v", entry.CustomerID, err)
		return
	}

	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		name = "User"
	}

	templateData := map[string]interface{}{
		"salon_name": salonName,
		"slot_time":  slotStart.Format("Mon, 02 Jan 2006 15:04"),
		"claim_by":   expiresAt.Format("Mon, 02 Jan 2006 15:04"),
	}

	err = s.notifications.SendWaitlistNotification(ctx,
		entry.CustomerID, email, name, phone,
		entry.SalonID, entry.ID,
		EventSlotAvailable, templateData)
	if err != nil {
		log.Printf("Warning: slot alert failed for customer %s: %v", entry.CustomerID, err)
		return
	}

	// Audit record only. Delivery already happened; a write failure here
	// must not surface to the caller.
	record := &WaitlistNotification{
		WaitlistEntryID: entry.ID,
		Type:            NotificationTypeSlotAvailable,
		SlotTime:        &slotStart,
	}
	if err := s.repo.CreateNotification(ctx, record); err != nil {
		log.Printf("Warning: failed to record waitlist notification for entry %s: %v", entry.ID, err)
	}
}

func (s *service) sendExpiredNotification(ctx context.Context, entry *WaitlistEntry) {
	if s.notifications == nil || s.users == nil {
		return
	}

	email, phone, firstName, lastName, err := s.users.GetUserContact(ctx, entry.CustomerID)
	if err != nil {
		log.Printf("Warning: failed to get contact for customer %s: %v", entry.CustomerID, err)
		return
	}

	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		name = "User"
	}

	templateData := map[string]interface{}{
		"salon_name": s.salonName(ctx, entry.SalonID),
	}

	err = s.notifications.SendWaitlistNotification(ctx,
		entry.CustomerID, email, name, phone,
		entry.SalonID, entry.ID,
		EventEntryExpired, templateData)
	if err != nil {
		log.Printf("Warning: expiry notice failed for customer %s: %v", entry.CustomerID, err)
		return
	}

	record := &WaitlistNotification{
		WaitlistEntryID: entry.ID,
		Type:            NotificationTypeExpired,
	}
	if err := s.repo.CreateNotification(ctx, record); err != nil {
		log.Printf("Warning: failed to record waitlist notification for entry %s: %v", entry.ID, err)
	}
}

// salonName resolves a display name. Best-effort; a lookup failure
// degrades the message but never blocks the flow.
func (s *service) salonName(ctx context.Context, id uuid.UUID) string {
	salon, err := s.salonRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Warning: failed to resolve salon name for %s: %v", id, err)
		return "the salon"
	}
	return salon.Name
}
