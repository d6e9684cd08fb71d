package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the SalonHub application
// Pattern: salonhub:{module}:{operation}:{identifier}:{params?}
//
// The cache is read-through only. Postgres stays authoritative for every
// booking and payment decision; keys here exist to absorb browse traffic.

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_MEDIUM = 12 * time.Hour // 12 hours - for category taxonomy
	TTL_STATIC_SHORT  = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_LONG   = 4 * time.Hour    // 4 hours - for salon detail pages
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for service catalogs
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for salon listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for featured salons
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for review listings
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for availability grids
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // 1 minute - for waitlist positions
	TTL_REALTIME_SHORT  = 30 * time.Second // 30 seconds - for live slot counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "salonhub"
)

// ================== SALONS MODULE ==================

// Salon Cache Keys
const (
	// Salon listings and searches
	CACHE_KEY_SALONS_LIST     = CACHE_PREFIX + ":salons:list"     // + :page:X:limit:Y:city:Z:...
	CACHE_KEY_SALONS_FEATURED = CACHE_PREFIX + ":salons:featured" // + :limit:X
	CACHE_KEY_SALONS_SEARCH   = CACHE_PREFIX + ":salons:search"   // + :query:X:page:Y

	// Individual salon details
	CACHE_KEY_SALON_DETAIL = CACHE_PREFIX + ":salons:detail:uuid:" // + salon-id
	CACHE_KEY_SALON_IMAGES = CACHE_PREFIX + ":salons:images:uuid:" // + salon-id
)

// Salon Cache TTLs
const (
	TTL_SALONS_LIST     = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_SALONS_FEATURED = TTL_SEMI_STATIC_QUICK // 15 minutes
	TTL_SALON_DETAIL    = TTL_SEMI_STATIC_LONG  // 4 hours
)

// ================== CATEGORIES MODULE ==================

// Category Cache Keys
const (
	CACHE_KEY_CATEGORIES_ACTIVE = CACHE_PREFIX + ":categories:active:all"   // Active categories list
	CACHE_KEY_CATEGORIES_ALL    = CACHE_PREFIX + ":categories:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_CATEGORY_BY_SLUG  = CACHE_PREFIX + ":categories:detail:slug:" // + category-slug
	CACHE_KEY_CATEGORY_BY_ID    = CACHE_PREFIX + ":categories:detail:uuid:" // + category-id
)

// Category Cache TTLs
const (
	TTL_CATEGORIES_ACTIVE = TTL_STATIC_LONG   // 24 hours
	TTL_CATEGORIES_LIST   = TTL_STATIC_SHORT  // 6 hours
	TTL_CATEGORY_DETAIL   = TTL_STATIC_MEDIUM // 12 hours
)

// ================== SERVICES MODULE ==================

// Service Catalog Cache Keys
const (
	CACHE_KEY_SALON_SERVICES = CACHE_PREFIX + ":services:salon:uuid:"  // + salon-id
	CACHE_KEY_SERVICE_DETAIL = CACHE_PREFIX + ":services:detail:uuid:" // + service-id
)

// Service Catalog Cache TTLs
const (
	TTL_SALON_SERVICES = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_SERVICE_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== BOOKINGS MODULE ==================

// Booking Cache Keys
const (
	CACHE_KEY_USER_BOOKINGS  = CACHE_PREFIX + ":bookings:user:uuid:"   // + user-id:page:X
	CACHE_KEY_BOOKING_DETAIL = CACHE_PREFIX + ":bookings:detail:uuid:" // + booking-id

	// Availability grids are advisory only. The booking transaction
	// re-checks overlap against Postgres under a row lock.
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":bookings:availability:salon:" // + salon-id:date:YYYY-MM-DD
)

// Booking Cache TTLs
const (
	TTL_USER_BOOKINGS  = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_AVAILABILITY   = TTL_DYNAMIC_QUICK  // 2 minutes
)

// ================== REVIEWS MODULE ==================

// Review Cache Keys
const (
	CACHE_KEY_SALON_REVIEWS = CACHE_PREFIX + ":reviews:salon:uuid:" // + salon-id:page:X
)

// Review Cache TTLs
const (
	TTL_SALON_REVIEWS = TTL_DYNAMIC_SHORT // 5 minutes
)

// ================== ANALYTICS MODULE ==================

// Analytics Cache Keys
const (
	// Vendor dashboards
	CACHE_KEY_ANALYTICS_VENDOR_DASHBOARD = CACHE_PREFIX + ":analytics:vendor:dashboard:uuid:" // + vendor-id
	CACHE_KEY_ANALYTICS_VENDOR_REVENUE   = CACHE_PREFIX + ":analytics:vendor:revenue:uuid:"   // + vendor-id:months:N

	// Admin overview
	CACHE_KEY_ANALYTICS_ADMIN_OVERVIEW = CACHE_PREFIX + ":analytics:admin:overview"

	// Customer dashboard
	CACHE_KEY_ANALYTICS_CUSTOMER = CACHE_PREFIX + ":analytics:customer:uuid:" // + user-id
)

// Analytics Cache TTLs
const (
	TTL_ANALYTICS_VENDOR   = TTL_DYNAMIC_MEDIUM    // 10 minutes
	TTL_ANALYTICS_ADMIN    = TTL_DYNAMIC_MEDIUM    // 10 minutes
	TTL_ANALYTICS_CUSTOMER = TTL_SEMI_STATIC_SHORT // 1 hour
)

// ================== AUTH MODULE ==================

// Auth Cache Keys
const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:uuid:" // + user-id
)

// Auth Cache TTLs
const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT // 6 hours
)

// ================== WAITLIST MODULE ==================

// Waitlist Cache Keys
const (
	CACHE_KEY_WAITLIST_STATUS  = CACHE_PREFIX + ":waitlist:status:salon:"  // + salon-id:user:user-id
	CACHE_KEY_WAITLIST_ENTRIES = CACHE_PREFIX + ":waitlist:entries:salon:" // + salon-id
)

// Waitlist Cache TTLs
const (
	TTL_WAITLIST_STATUS  = TTL_REALTIME_MEDIUM // 1 minute
	TTL_WAITLIST_ENTRIES = TTL_DYNAMIC_SHORT   // 5 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with Redis KEYS command or manual invalidation)
const (
	// Salon-related invalidation patterns
	PATTERN_INVALIDATE_SALONS_ALL   = CACHE_PREFIX + ":salons:*"
	PATTERN_INVALIDATE_SALON_DETAIL = CACHE_PREFIX + ":salons:*:uuid:" // + salon-id + *

	// Category-related invalidation patterns
	PATTERN_INVALIDATE_CATEGORIES_ALL = CACHE_PREFIX + ":categories:*"

	// Service catalog invalidation patterns
	PATTERN_INVALIDATE_SERVICES_ALL = CACHE_PREFIX + ":services:*"

	// Availability invalidation patterns
	PATTERN_INVALIDATE_AVAILABILITY = CACHE_PREFIX + ":bookings:availability:*"

	// User-related invalidation patterns
	PATTERN_INVALIDATE_USER_ALL = CACHE_PREFIX + ":*:user:*" // + user-id + *

	// Analytics invalidation patterns
	PATTERN_INVALIDATE_ANALYTICS = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildSalonListKey constructs listing keys with the filter set baked in
// Example: BuildSalonListKey(1, 10, "accra", "") -> "salonhub:salons:list:page:1:limit:10:city:accra"
func BuildSalonListKey(page, limit int, city, search string) string {
	key := CACHE_KEY_SALONS_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit)
	if city != "" {
		key += ":city:" + city
	}
	if search != "" {
		key += ":search:" + search
	}
	return key
}

func BuildSalonDetailKey(salonID string) string {
	return CACHE_KEY_SALON_DETAIL + salonID
}

func BuildCategoryBySlugKey(slug string) string {
	return CACHE_KEY_CATEGORY_BY_SLUG + slug
}

func BuildSalonServicesKey(salonID string) string {
	return CACHE_KEY_SALON_SERVICES + salonID
}

func BuildUserBookingsKey(userID string, page int) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildAvailabilityKey(salonID, date string) string {
	return CACHE_KEY_AVAILABILITY + salonID + ":date:" + date
}

func BuildSalonReviewsKey(salonID string, page int) string {
	return CACHE_KEY_SALON_REVIEWS + salonID + ":page:" + fmt.Sprintf("%d", page)
}

func BuildVendorDashboardKey(vendorID string) string {
	return CACHE_KEY_ANALYTICS_VENDOR_DASHBOARD + vendorID
}

func BuildVendorRevenueKey(vendorID string, months int) string {
	return CACHE_KEY_ANALYTICS_VENDOR_REVENUE + vendorID + ":months:" + fmt.Sprintf("%d", months)
}

func BuildWaitlistStatusKey(salonID, userID string) string {
	return CACHE_KEY_WAITLIST_STATUS + salonID + ":user:" + userID
}
