package analytics

import (
	"github.com/google/uuid"
)

// Aggregates are computed from the live booking, payment, salon and
// review tables. Nothing in this package owns a table of its own.

// VendorDashboard is the operating picture for one vendor across all
// of their salons.
type VendorDashboard struct {
	TotalSalons       int64   `json:"total_salons"`
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	UpcomingBookings  int64   `json:"upcoming_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	RevenueThisMonth  float64 `json:"revenue_this_month"`
	Currency          string  `json:"currency"`
	AverageRating     float64 `json:"average_rating"`
	TotalReviews      int64   `json:"total_reviews"`

	TopServices []ServicePerformance `json:"top_services"`
}

// ServicePerformance ranks a catalog service by paid usage. Names come
// from the booking item snapshots, so renamed services keep their
// historical revenue under the old name.
type ServicePerformance struct {
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Bookings    int64     `json:"bookings"`
	Revenue     float64   `json:"revenue"`
}

// MonthlyRevenue is one month's settled money. Revenue counts payments
// still successful; refunded amounts are broken out, not netted.
type MonthlyRevenue struct {
	Month    string  `json:"month"` // YYYY-MM
	Payments int64   `json:"payments"`
	Revenue  float64 `json:"revenue"`
	Refunded float64 `json:"refunded"`
}

type VendorRevenue struct {
	Months        []MonthlyRevenue `json:"months"`
	TotalRevenue  float64          `json:"total_revenue"`
	TotalRefunded float64          `json:"total_refunded"`
	Currency      string           `json:"currency"`
}

// AdminOverview is the marketplace-wide snapshot for operators.
type AdminOverview struct {
	TotalUsers        int64 `json:"total_users"`
	TotalCustomers    int64 `json:"total_customers"`
	TotalVendors      int64 `json:"total_vendors"`
	NewUsersThisMonth int64 `json:"new_users_this_month"`

	TotalSalons  int64 `json:"total_salons"`
	ActiveSalons int64 `json:"active_salons"`

	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`

	TotalRevenue     float64 `json:"total_revenue"`
	TotalRefunded    float64 `json:"total_refunded"`
	RevenueThisMonth float64 `json:"revenue_this_month"`
	Currency         string  `json:"currency"`

	TopSalons []SalonPerformance `json:"top_salons"`
}

type SalonPerformance struct {
	SalonID       uuid.UUID `json:"salon_id"`
	Name          string    `json:"name"`
	Bookings      int64     `json:"bookings"`
	Revenue       float64   `json:"revenue"`
	AverageRating float64   `json:"average_rating"`
}
