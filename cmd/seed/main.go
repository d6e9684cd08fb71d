package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"salonhub/internal/cancellation"
	"salonhub/internal/categories"
	"salonhub/internal/reviews"
	"salonhub/internal/salons"
	"salonhub/internal/services"
	"salonhub/internal/shared/config"
	"salonhub/internal/shared/database"
	"salonhub/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SalonHub Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"waitlist_notifications",
		"waitlist_entries",
		"cancellations",
		"cancellation_policies",
		"payments",
		"booking_items",
		"bookings",
		"reviews",
		"services",
		"service_categories",
		"favorites",
		"salon_images",
		"salons",
		"user_profiles",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed service categories (admin-owned taxonomy)
	categoryIDs, err := s.SeedCategories(userIDs["admin"])
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	// Seed salons for the vendor accounts
	salonIDs, err := s.SeedSalons(userIDs)
	if err != nil {
		return fmt.Errorf("failed to seed salons: %w", err)
	}

	// Seed service catalogs
	if err := s.SeedServices(salonIDs, categoryIDs); err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}

	// Seed cancellation policies
	if err := s.SeedCancellationPolicies(salonIDs); err != nil {
		return fmt.Errorf("failed to seed cancellation policies: %w", err)
	}

	// Seed reviews and roll up the rating aggregates
	if err := s.SeedReviews(userIDs, salonIDs); err != nil {
		return fmt.Errorf("failed to seed reviews: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin, 2 vendors and 2 customers
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@salonhub.app", "+233200000001", users.RoleAdmin},
		{"vendor1", "Ama", "Mensah", "ama.mensah@salonhub.app", "+233244111222", users.RoleVendor},
		{"vendor2", "Kwame", "Boateng", "kwame.boateng@salonhub.app", "+233244333444", users.RoleVendor},
		{"customer1", "Abena", "Osei", "abena.osei@salonhub.app", "+233200555666", users.RoleCustomer},
		{"customer2", "Kofi", "Adjei", "kofi.adjei@salonhub.app", "+233200777888", users.RoleCustomer},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedCategories creates the service taxonomy
func (s *Seeder) SeedCategories(adminID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🗂️ Seeding service categories...")

	var categoryIDs []uuid.UUID

	categoriesData := []struct {
		name        string
		description string
	}{
		{"Hair", "Cuts, styling, braiding and treatments"},
		{"Nails", "Manicures, pedicures and nail art"},
		{"Spa & Massage", "Relaxation and therapeutic treatments"},
		{"Barbering", "Men's cuts, shaves and grooming"},
		{"Makeup", "Event and everyday makeup services"},
		{"Skincare", "Facials and skin treatments"},
	}

	for _, categoryData := range categoriesData {
		category := categories.Category{
			ID:          uuid.New(),
			Name:        categoryData.name,
			Slug:        generateSlug(categoryData.name),
			Description: categoryData.description,
			IsActive:    true,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", category.Name, err)
		}

		categoryIDs = append(categoryIDs, category.ID)
		fmt.Printf("    ✅ Created category: %s\n", category.Name)
	}

	return categoryIDs, nil
}

// SeedSalons creates salons owned by the vendor accounts
func (s *Seeder) SeedSalons(userIDs map[string]uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  💈 Seeding salons...")

	var salonIDs []uuid.UUID

	salonsData := []struct {
		ownerKey    string
		name        string
		description string
		address     string
		city        string
		region      string
		phone       string
		email       string
		openingTime string
		closingTime string
		verified    bool
		imageURL    string
	}{
		{
			ownerKey:    "vendor1",
			name:        "Adabraka Beauty Lounge",
			description: "Full service salon in the heart of Accra. Hair, nails and spa under one roof.",
			address:     "12 Kojo Thompson Road, Adabraka",
			city:        "Accra",
			region:      "Greater Accra",
			phone:       "+233302998877",
			email:       "hello@adabrakabeauty.com",
			openingTime: "08:00",
			closingTime: "19:00",
			verified:    true,
			imageURL:    "https://images.salonhub.app/salons/adabraka-front.jpg",
		},
		{
			ownerKey:    "vendor1",
			name:        "Osu Glam Studio",
			description: "Makeup and nail studio on Oxford Street. Walk-ins welcome on weekdays.",
			address:     "45 Oxford Street, Osu",
			city:        "Accra",
			region:      "Greater Accra",
			phone:       "+233302776655",
			email:       "bookings@osuglam.com",
			openingTime: "09:00",
			closingTime: "20:00",
			verified:    true,
			imageURL:    "https://images.salonhub.app/salons/osu-glam-interior.jpg",
		},
		{
			ownerKey:    "vendor2",
			name:        "Kumasi Cuts",
			description: "Barbershop and grooming lounge near Kejetia Market.",
			address:     "3 Prempeh II Street",
			city:        "Kumasi",
			region:      "Ashanti",
			phone:       "+233322445566",
			email:       "info@kumasicuts.com",
			openingTime: "07:30",
			closingTime: "18:30",
			verified:    false,
			imageURL:    "https://images.salonhub.app/salons/kumasi-cuts-chairs.jpg",
		},
	}

	for _, salonData := range salonsData {
		salon := salons.Salon{
			ID:          uuid.New(),
			OwnerID:     userIDs[salonData.ownerKey],
			Name:        salonData.name,
			Slug:        generateSlug(salonData.name),
			Description: salonData.description,
			Address:     salonData.address,
			City:        salonData.city,
			Region:      salonData.region,
			Country:     "Ghana",
			Phone:       salonData.phone,
			Email:       salonData.email,
			OpeningTime: salonData.openingTime,
			ClosingTime: salonData.closingTime,
			IsActive:    true,
			IsVerified:  salonData.verified,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&salon).Error; err != nil {
			return nil, fmt.Errorf("failed to create salon %s: %w", salon.Name, err)
		}

		image := salons.SalonImage{
			ID:        uuid.New(),
			SalonID:   salon.ID,
			ImageURL:  salonData.imageURL,
			Caption:   salon.Name,
			IsPrimary: true,
			CreatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&image).Error; err != nil {
			return nil, fmt.Errorf("failed to create image for salon %s: %w", salon.Name, err)
		}

		salonIDs = append(salonIDs, salon.ID)
		fmt.Printf("    ✅ Created salon: %s (%s)\n", salon.Name, salon.City)
	}

	return salonIDs, nil
}

// SeedServices fills each salon's catalog
func (s *Seeder) SeedServices(salonIDs []uuid.UUID, categoryIDs []uuid.UUID) error {
	fmt.Println("  💅 Seeding services...")

	// categoryIDs order matches SeedCategories: Hair, Nails, Spa & Massage,
	// Barbering, Makeup, Skincare
	servicesData := []struct {
		salonIndex      int
		categoryIndex   int
		name            string
		description     string
		durationMinutes int
		price           float64
	}{
		{0, 0, "Box Braids", "Knotless box braids, shoulder length", 180, 250.0},
		{0, 0, "Silk Press", "Wash, blow dry and silk press", 90, 150.0},
		{0, 1, "Gel Manicure", "Gel polish with cuticle care", 60, 80.0},
		{0, 2, "Deep Tissue Massage", "60 minute full body massage", 60, 200.0},
		{1, 4, "Bridal Makeup", "Full bridal look with trial session", 120, 600.0},
		{1, 4, "Soft Glam", "Event ready soft glam makeup", 60, 250.0},
		{1, 1, "Acrylic Full Set", "Sculpted acrylics with shaping", 90, 120.0},
		{2, 3, "Fade & Lineup", "Skin fade with sharp lineup", 45, 50.0},
		{2, 3, "Hot Towel Shave", "Classic straight razor shave", 30, 40.0},
		{2, 5, "Charcoal Facial", "Deep cleansing facial for men", 45, 90.0},
	}

	for _, serviceData := range servicesData {
		categoryID := categoryIDs[serviceData.categoryIndex]
		service := services.Service{
			ID:              uuid.New(),
			SalonID:         salonIDs[serviceData.salonIndex],
			CategoryID:      &categoryID,
			Name:            serviceData.name,
			Description:     serviceData.description,
			DurationMinutes: serviceData.durationMinutes,
			Price:           serviceData.price,
			Currency:        "GHS",
			IsActive:        true,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&service).Error; err != nil {
			return fmt.Errorf("failed to create service %s: %w", service.Name, err)
		}

		fmt.Printf("    ✅ Created service: %s (GHS %.2f)\n", service.Name, service.Price)
	}

	return nil
}

// SeedCancellationPolicies creates per-salon cancellation rules
func (s *Seeder) SeedCancellationPolicies(salonIDs []uuid.UUID) error {
	fmt.Println("  📋 Seeding cancellation policies...")

	policiesData := []struct {
		allowCancellation    bool
		cutoffHours          int
		feeType              string
		feeAmount            float64
		refundProcessingDays int
	}{
		{true, 24, "PERCENTAGE", 10.0, 5}, // 10% fee inside 24h
		{true, 48, "FIXED", 50.0, 3},      // GHS 50 fee inside 48h
		{true, 12, "NONE", 0.0, 7},        // free cancellation up to 12h before
	}

	for i, salonID := range salonIDs {
		policyData := policiesData[i%len(policiesData)]

		policy := cancellation.CancellationPolicy{
			ID:                   uuid.New(),
			SalonID:              salonID,
			AllowCancellation:    policyData.allowCancellation,
			CutoffHours:          policyData.cutoffHours,
			FeeType:              policyData.feeType,
			FeeAmount:            policyData.feeAmount,
			RefundProcessingDays: policyData.refundProcessingDays,
			CreatedAt:            time.Now(),
			UpdatedAt:            time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&policy).Error; err != nil {
			return fmt.Errorf("failed to create cancellation policy: %w", err)
		}

		fmt.Printf("    ✅ Created cancellation policy (Cutoff: %dh, Fee: %s)\n",
			policy.CutoffHours, policy.FeeType)
	}

	return nil
}

// SeedReviews creates a few reviews and rolls the aggregates onto the salons
func (s *Seeder) SeedReviews(userIDs map[string]uuid.UUID, salonIDs []uuid.UUID) error {
	fmt.Println("  ⭐ Seeding reviews...")

	reviewsData := []struct {
		customerKey string
		salonIndex  int
		rating      int
		comment     string
	}{
		{"customer1", 0, 5, "The braids came out perfect and the team was lovely."},
		{"customer2", 0, 4, "Great massage, slightly long wait at reception."},
		{"customer1", 1, 5, "Best bridal makeup in Accra, worth every cedi."},
		{"customer2", 2, 4, "Clean fade, good music, will be back."},
	}

	for _, reviewData := range reviewsData {
		review := reviews.Review{
			ID:         uuid.New(),
			SalonID:    salonIDs[reviewData.salonIndex],
			CustomerID: userIDs[reviewData.customerKey],
			Rating:     reviewData.rating,
			Comment:    reviewData.comment,
			IsApproved: true,
			CreatedAt:  time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
	}

	// Roll up the aggregates the browse endpoints sort by
	for _, salonID := range salonIDs {
		err := s.db.PostgreSQL.Exec(`
			UPDATE salons SET
				average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE salon_id = ?), 0),
				total_reviews = (SELECT COUNT(*) FROM reviews WHERE salon_id = ?)
			WHERE id = ?
		`, salonID, salonID, salonID).Error
		if err != nil {
			return fmt.Errorf("failed to update salon rating aggregates: %w", err)
		}
	}

	fmt.Printf("    ✅ Created %d reviews\n", len(reviewsData))
	return nil
}

// generateSlug creates a URL-friendly slug from a string
func generateSlug(name string) string {
	// Simple slug generation - convert to lowercase and replace spaces with hyphens
	slug := ""
	for _, r := range name {
		if r == ' ' {
			slug += "-"
		} else if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if r >= 'A' && r <= 'Z' {
				slug += string(r + 32) // Convert to lowercase
			} else {
				slug += string(r)
			}
		}
	}
	return slug
}
