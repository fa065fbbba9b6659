package main

import (
	"log"
	"net/http"
	"os"

	"hoodrentals/docs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"hoodrentals/internal/auth"
	"hoodrentals/internal/cache"
	"hoodrentals/internal/config"
	"hoodrentals/internal/db"
	"hoodrentals/internal/handler"
	"hoodrentals/internal/mail"
	"hoodrentals/internal/model"
	"hoodrentals/internal/paystack"
	"hoodrentals/internal/repository"
	"hoodrentals/internal/router"
	"hoodrentals/internal/service"
	"hoodrentals/internal/store"
)

// @title Hood Rentals API
// @version 1.0
// @description Car rental backend with password, Google, magic-link and OTP authentication, bookings, and Paystack payment verification.
// @host localhost:8000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()

	gormDB, err := db.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Booking{},
			&model.Testimonial{},
			&model.Car{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Car{},
		&model.Booking{},
		&model.Testimonial{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Redis is optional. With it, login credentials and the car-list cache
	// survive restarts; without it, credentials live in process memory and
	// listing always hits the database.
	var redisClient *redis.Client
	var credStore store.CredentialStore
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		credStore = store.NewRedisStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory credential store")
		credStore = store.NewMemoryStore()
	}
	cacheClient := cache.New(redisClient)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	testimonialRepo := repository.NewTestimonialRepository(gormDB)

	// Initialize external clients
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	googleVerifier := auth.NewGoogleVerifier(cfg.GoogleClientID)
	mailer := mail.NewResendClient(cfg.ResendAPIKey)
	paystackClient := paystack.NewClient(cfg.PaystackSecret)

	// Initialize services
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, userService, jwtService, googleVerifier)
	passwordlessService := service.NewPasswordlessService(userService, credStore, jwtService, mailer, cfg.MailFrom, cfg.FrontendURL)
	carService := service.NewCarService(carRepo, cacheClient)
	bookingService := service.NewBookingService(bookingRepo, mailer, cfg.MailFrom, cfg.AdminEmail)
	paymentService := service.NewPaymentService(bookingRepo, paystackClient, mailer, cfg.MailFrom, cfg.AdminEmail)
	feedbackService := service.NewFeedbackService(testimonialRepo, mailer, cfg.MailFrom, cfg.AdminEmail)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	passwordlessHandler := handler.NewPasswordlessHandler(passwordlessService)
	carHandler := handler.NewCarHandler(carService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		passwordlessHandler,
		carHandler,
		bookingHandler,
		paymentHandler,
		feedbackHandler,
		userHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
