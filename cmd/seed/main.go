package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hoodrentals/internal/config"
	"hoodrentals/internal/db"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Car{},
		&model.Booking{},
		&model.Testimonial{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	if err := seedAdmin(ctx, repository.NewUserRepository(gormDB)); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, updated, err := seedCars(ctx, repository.NewCarRepository(gormDB))
	if err != nil {
		log.Fatalf("Failed to seed cars: %v", err)
	}
	log.Printf("Cars seeded: %d created, %d updated", created, updated)

	added, err := seedTestimonials(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed testimonials: %v", err)
	}
	log.Printf("Testimonials seeded: %d added", added)

	log.Println("Seed completed successfully!")
}

// seedAdmin creates the operator account if it does not exist. ADMIN_PASSWORD
// must be set the first time; afterwards the account is left untouched.
func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "macleaann723@gmail.com"
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin creation")
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin user %s created", email)
	return nil
}

func seedCars(ctx context.Context, cars repository.CarRepository) (created int, updated int, err error) {
	fleet := []model.Car{
		{Title: "Toyota Corolla", PricePerDay: decimal.NewFromInt(250), Description: "Reliable sedan for city driving.", ImageURL: "/images/corolla.jpg", Available: true},
		{Title: "Hyundai Elantra", PricePerDay: decimal.NewFromInt(280), Description: "Comfortable compact with great fuel economy.", ImageURL: "/images/elantra.jpg", Available: true},
		{Title: "Kia Sportage", PricePerDay: decimal.NewFromInt(400), Description: "Mid-size SUV for family trips.", ImageURL: "/images/sportage.jpg", Available: true},
		{Title: "Toyota Land Cruiser", PricePerDay: decimal.NewFromInt(850), Description: "Full-size 4x4 for rough roads.", ImageURL: "/images/landcruiser.jpg", Available: true},
		{Title: "Mercedes-Benz C300", PricePerDay: decimal.NewFromInt(700), Description: "Executive sedan for events and business.", ImageURL: "/images/c300.jpg", Available: true},
	}

	existing, err := cars.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	byTitle := make(map[string]*model.Car, len(existing))
	for i := range existing {
		byTitle[existing[i].Title] = &existing[i]
	}

	for _, car := range fleet {
		if current, ok := byTitle[car.Title]; ok {
			current.PricePerDay = car.PricePerDay
			current.Description = car.Description
			current.ImageURL = car.ImageURL
			if err := cars.Update(ctx, current); err != nil {
				return created, updated, err
			}
			updated++
		} else {
			car := car
			if err := cars.Create(ctx, &car); err != nil {
				return created, updated, err
			}
			created++
		}
	}
	return created, updated, nil
}

func seedTestimonials(ctx context.Context, gormDB *gorm.DB) (int, error) {
	testimonials := repository.NewTestimonialRepository(gormDB)

	existing, err := testimonials.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("Testimonials already present (%d), skipping", len(existing))
		return 0, nil
	}

	samples := []model.Testimonial{
		{Name: "Ama K.", Rating: 5, Message: "Smooth pickup and the car was spotless. Will rent again."},
		{Name: "Kofi B.", Rating: 4, Message: "Good prices and quick responses on the support form."},
		{Name: "Esi M.", Rating: 5, Message: "The magic-link login is so convenient, no passwords to remember."},
	}
	for i := range samples {
		if err := testimonials.Create(ctx, &samples[i]); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}
