package database

import (
	"salonhub/internal/bookings"
	"salonhub/internal/cancellation"
	"salonhub/internal/categories"
	"salonhub/internal/payments"
	"salonhub/internal/reviews"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/users"
	"salonhub/internal/waitlist"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.UserProfile{},
		&salons.Salon{},
		&salons.SalonImage{},
		&users.Favorite{},
		&categories.Category{},
		&services.Service{},
		&reviews.Review{},
		&bookings.Booking{},
		&bookings.BookingItem{},
		&payments.Payment{},
		&cancellation.CancellationPolicy{},
		&cancellation.Cancellation{},
		&waitlist.WaitlistEntry{},
		&waitlist.WaitlistNotification{},
	)
}
