package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One live payment per booking. Failed and refunded attempts do not
	// count, so a retry can mint a fresh row while the index still blocks
	// two concurrent live attempts.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_live
		ON payments (booking_id)
		WHERE status NOT IN ('failed', 'refunded');
	`).Error
	if err != nil {
		return err
	}

	// Index for availability scans over a salon's calendar
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_salon_schedule
		ON bookings (salon_id, scheduled_time)
		WHERE status IN ('pending', 'confirmed');
	`).Error
	if err != nil {
		return err
	}

	// Index for waitlist coverage queries when a slot frees up
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_waitlist_salon_open
		ON waitlist_entries (salon_id, window_start, window_end)
		WHERE status IN ('waiting', 'notified');
	`).Error
	if err != nil {
		return err
	}

	return nil
}
