package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"playarena/internal/categories"
	"playarena/internal/events"
	"playarena/internal/schedule"
	"playarena/internal/shared/config"
	"playarena/internal/shared/database"
	"playarena/internal/users"
	"playarena/internal/vendors"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting PlayArena Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every table, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payment_rollouts",
		"reviews",
		"bookmarks",
		"bookings",
		"booking_charts",
		"booking_detail_types",
		"events",
		"categories",
		"vendors",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedVendor(ctx, userIDs["vendor"], userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed vendor: %w", err)
	}

	categoryService, err := s.SeedCategories(ctx, userIDs["admin"])
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := s.SeedEvents(ctx, userIDs["vendor"], categoryService); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

// SeedUsers creates an admin, a vendor applicant and a player. Password is "qwerty".
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@playarena.test", users.RoleAdmin},
		{"vendor", "Ravi", "Kulkarni", "courts@playarena.test", users.RoleUser},
		{"player", "Asha", "Rao", "player@playarena.test", users.RoleUser},
	}

	userIDs := make(map[string]uuid.UUID)
	for _, userData := range usersData {
		user := users.User{
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}
		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return userIDs, nil
}

// SeedVendor runs the onboarding flow so the vendor is promoted the normal way
func (s *Seeder) SeedVendor(ctx context.Context, userID, adminID uuid.UUID) error {
	fmt.Println("  🏢 Seeding vendor...")

	svc := vendors.NewService(vendors.NewRepository(s.db.PostgreSQL), nil)
	applied, err := svc.Apply(ctx, userID, vendors.ApplyRequest{
		BusinessName:      "Smash Courts",
		GSTIN:             "27ABCDE1234F1Z5",
		PAN:               "ABCDE1234F",
		BankAccountHolder: "Smash Courts LLP",
		BankAccountNumber: "000123456789",
		IFSC:              "HDFC0001234",
	})
	if err != nil {
		return err
	}
	if _, err := svc.Approve(ctx, adminID, applied.ID); err != nil {
		return err
	}
	fmt.Printf("    ✅ Approved vendor: %s\n", applied.BusinessName)
	return nil
}

func (s *Seeder) SeedCategories(ctx context.Context, adminID uuid.UUID) (categories.Service, error) {
	fmt.Println("  🏷️  Seeding categories...")

	svc := categories.NewService(categories.NewRepository(s.db.PostgreSQL), nil)
	for _, name := range []string{"Badminton", "Football", "Cricket", "Swimming", "Yoga"} {
		category, err := svc.CreateCategory(ctx, adminID, categories.CreateCategoryRequest{Name: name})
		if err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", name, err)
		}
		fmt.Printf("    ✅ Created category: %s\n", category.Slug)
	}
	return svc, nil
}

// SeedEvents creates one event per schedule mode and publishes them
func (s *Seeder) SeedEvents(ctx context.Context, vendorID uuid.UUID, checker events.CategoryChecker) error {
	fmt.Println("  🏟️  Seeding events...")

	svc := events.NewService(events.NewRepository(s.db.PostgreSQL), events.CacheTTL{})
	svc.SetCategoryChecker(checker)

	start := time.Now().AddDate(0, 0, 1)
	day := func(offset int) string { return start.AddDate(0, 0, offset).Format("2006-01-02") }

	requests := []events.CreateEventRequest{
		{
			Name:         "Sunday 5-a-side League",
			CategorySlug: "football",
			City:         "Pune",
			Address:      "Baner Turf Arena",
			Schedule: events.ScheduleRequest{
				Mode:        schedule.ModeSingle,
				StartDate:   day(6),
				OpeningTime: "07:00",
				ClosingTime: "11:00",
			},
			MaximumParticipants: 40,
			IsTeamEvent:         true,
			TeamSize:            5,
			IsPhysical:          true,
			Tiers: []events.TierRequest{
				{Type: events.TierGroup, Name: "Team", Amount: 2500, Members: 5},
			},
		},
		{
			Name:         "Evening Badminton Slots",
			CategorySlug: "badminton",
			City:         "Pune",
			Address:      "Smash Courts, Kothrud",
			Schedule: events.ScheduleRequest{
				Mode:         schedule.ModeRecurring,
				StartDate:    day(0),
				EndDate:      day(27),
				WeekDays:     []string{"MON", "WED", "FRI"},
				OpeningTime:  "18:00",
				ClosingTime:  "22:00",
				IsHaveSlots:  true,
				SlotDuration: 60,
			},
			MaximumParticipants: 4,
			IsPhysical:          true,
			Tiers: []events.TierRequest{
				{Type: events.TierSingle, Name: "Court hour", Amount: 400},
			},
		},
		{
			Name:         "Morning Yoga Membership",
			CategorySlug: "yoga",
			City:         "Mumbai",
			Schedule: events.ScheduleRequest{
				Mode:        schedule.ModeMonthlySubscription,
				StartDate:   day(0),
				EndDate:     day(29),
				OpeningTime: "06:00",
				ClosingTime: "07:00",
			},
			MaximumParticipants: 25,
			IsOnline:            true,
			Tiers: []events.TierRequest{
				{Type: events.TierSubscription, Name: "Monthly", Amount: 1800, DurationMonths: 1},
			},
		},
	}

	for _, req := range requests {
		event, err := svc.CreateEvent(ctx, vendorID, req)
		if err != nil {
			return fmt.Errorf("failed to create event %s: %w", req.Name, err)
		}
		id := uuid.MustParse(event.ID)
		if err := svc.UpdateStatus(ctx, id, events.StatusPublished); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", req.Name, err)
		}
		fmt.Printf("    ✅ Created event: %s (%s)\n", event.Name, req.Schedule.Mode)
	}
	return nil
}
