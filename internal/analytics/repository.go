package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetVendorDashboard(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error)
	GetVendorRevenue(ctx context.Context, vendorID uuid.UUID, months int) (*VendorRevenue, error)
	GetAdminOverview(ctx context.Context) (*AdminOverview, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetVendorDashboard(ctx context.Context, vendorID uuid.UUID) (*VendorDashboard, error) {
	var dashboard VendorDashboard

	err := r.db.WithContext(ctx).
		Table("salons").
		Where("owner_id = ?", vendorID).
		Count(&dashboard.TotalSalons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count salons: %w", err)
	}

	var bookingCounts struct {
		Total     int64
		Pending   int64
		Upcoming  int64
		Completed int64
		Cancelled int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN b.status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN b.status = 'confirmed' AND b.scheduled_time > NOW() THEN 1 ELSE 0 END), 0) AS upcoming,
			COALESCE(SUM(CASE WHEN b.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN b.status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled
		FROM bookings b
		JOIN salons s ON s.id = b.salon_id
		WHERE s.owner_id = ?
	`, vendorID).Scan(&bookingCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get booking counts: %w", err)
	}
	dashboard.TotalBookings = bookingCounts.Total
	dashboard.PendingBookings = bookingCounts.Pending
	dashboard.UpcomingBookings = bookingCounts.Upcoming
	dashboard.CompletedBookings = bookingCounts.Completed
	dashboard.CancelledBookings = bookingCounts.Cancelled

	var revenue struct {
		Total     float64
		ThisMonth float64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN p.status = 'successful' THEN p.amount ELSE 0 END), 0) AS total,
			COALESCE(SUM(CASE WHEN p.status = 'successful' AND p.paid_at >= date_trunc('month', NOW()) THEN p.amount ELSE 0 END), 0) AS this_month
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN salons s ON s.id = b.salon_id
		WHERE s.owner_id = ?
	`, vendorID).Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue totals: %w", err)
	}
	dashboard.TotalRevenue = revenue.Total
	dashboard.RevenueThisMonth = revenue.ThisMonth

	var ratings struct {
		AverageRating float64
		TotalReviews  int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(r.rating), 0) AS average_rating, COUNT(*) AS total_reviews
		FROM reviews r
		JOIN salons s ON s.id = r.salon_id
		WHERE s.owner_id = ?
	`, vendorID).Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}
	dashboard.AverageRating = ratings.AverageRating
	dashboard.TotalReviews = ratings.TotalReviews

	// Item snapshots carry the sold name and price, so this ranking
	// survives catalog edits and deletions.
	topServices := make([]ServicePerformance, 0, 5)
	err = r.db.WithContext(ctx).Raw(`
		SELECT bi.service_id, bi.service_name,
			COUNT(*) AS bookings,
			COALESCE(SUM(bi.price * bi.quantity), 0) AS revenue
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		JOIN salons s ON s.id = b.salon_id
		WHERE s.owner_id = ? AND b.status IN ('confirmed', 'completed')
		GROUP BY bi.service_id, bi.service_name
		ORDER BY revenue DESC
		LIMIT 5
	`, vendorID).Scan(&topServices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top services: %w", err)
	}
	dashboard.TopServices = topServices

	return &dashboard, nil
}

func (r *repository) GetVendorRevenue(ctx context.Context, vendorID uuid.UUID, months int) (*VendorRevenue, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := monthStart.AddDate(0, -(months - 1), 0)

	rows := make([]MonthlyRevenue, 0, months)
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('month', p.paid_at), 'YYYY-MM') AS month,
			COUNT(*) AS payments,
			COALESCE(SUM(CASE WHEN p.status = 'successful' THEN p.amount ELSE 0 END), 0) AS revenue,
			COALESCE(SUM(CASE WHEN p.status = 'refunded' THEN p.amount ELSE 0 END), 0) AS refunded
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN salons s ON s.id = b.salon_id
		WHERE s.owner_id = ?
			AND p.status IN ('successful', 'refunded')
			AND p.paid_at IS NOT NULL
			AND p.paid_at >= ?
		GROUP BY 1
		ORDER BY 1
	`, vendorID, from).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}

	result := &VendorRevenue{Months: rows}
	for _, row := range rows {
		result.TotalRevenue += row.Revenue
		result.TotalRefunded += row.Refunded
	}

	return result, nil
}

func (r *repository) GetAdminOverview(ctx context.Context) (*AdminOverview, error) {
	var overview AdminOverview

	var userCounts struct {
		Total        int64
		Customers    int64
		Vendors      int64
		NewThisMonth int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN role = 'CUSTOMER' THEN 1 ELSE 0 END), 0) AS customers,
			COALESCE(SUM(CASE WHEN role = 'VENDOR' THEN 1 ELSE 0 END), 0) AS vendors,
			COALESCE(SUM(CASE WHEN created_at >= date_trunc('month', NOW()) THEN 1 ELSE 0 END), 0) AS new_this_month
		FROM users
	`).Scan(&userCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user counts: %w", err)
	}
	overview.TotalUsers = userCounts.Total
	overview.TotalCustomers = userCounts.Customers
	overview.TotalVendors = userCounts.Vendors
	overview.NewUsersThisMonth = userCounts.NewThisMonth

	var salonCounts struct {
		Total  int64
		Active int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active
		FROM salons
	`).Scan(&salonCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get salon counts: %w", err)
	}
	overview.TotalSalons = salonCounts.Total
	overview.ActiveSalons = salonCounts.Active

	var statusRows []struct {
		Status string
		Count  int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count FROM bookings GROUP BY status
	`).Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get booking status counts: %w", err)
	}
	overview.BookingsByStatus = make(map[string]int64, len(statusRows))
	for _, row := range statusRows {
		overview.BookingsByStatus[row.Status] = row.Count
		overview.TotalBookings += row.Count
	}

	var revenue struct {
		Revenue   float64
		Refunded  float64
		ThisMonth float64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN status = 'successful' THEN amount ELSE 0 END), 0) AS revenue,
			COALESCE(SUM(CASE WHEN status = 'refunded' THEN amount ELSE 0 END), 0) AS refunded,
			COALESCE(SUM(CASE WHEN status = 'successful' AND paid_at >= date_trunc('month', NOW()) THEN amount ELSE 0 END), 0) AS this_month
		FROM payments
	`).Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue totals: %w", err)
	}
	overview.TotalRevenue = revenue.Revenue
	overview.TotalRefunded = revenue.Refunded
	overview.RevenueThisMonth = revenue.ThisMonth

	// DISTINCT booking count because the payments join fans out rows
	// for bookings with a retry history.
	topSalons := make([]SalonPerformance, 0, 5)
	err = r.db.WithContext(ctx).Raw(`
		SELECT s.id AS salon_id, s.name, s.average_rating,
			COUNT(DISTINCT b.id) AS bookings,
			COALESCE(SUM(CASE WHEN p.status = 'successful' THEN p.amount ELSE 0 END), 0) AS revenue
		FROM salons s
		LEFT JOIN bookings b ON b.salon_id = s.id
		LEFT JOIN payments p ON p.booking_id = b.id
		GROUP BY s.id, s.name, s.average_rating
		ORDER BY revenue DESC, bookings DESC
		LIMIT 5
	`).Scan(&topSalons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top salons: %w", err)
	}
	overview.TopSalons = topSalons

	return &overview, nil
}
