package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"hoodrentals/internal/config"
	"hoodrentals/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	passwordlessHandler *handler.PasswordlessHandler,
	carHandler *handler.CarHandler,
	bookingHandler *handler.BookingHandler,
	paymentHandler *handler.PaymentHandler,
	feedbackHandler *handler.FeedbackHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Backend is running!")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public auth routes
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)
	e.POST("/auth/google", authHandler.GoogleLogin)
	e.POST("/auth/magic-link/request", passwordlessHandler.RequestMagicLink)
	e.POST("/auth/magic-link/verify", passwordlessHandler.VerifyMagicLink)
	e.POST("/auth/otp/request", passwordlessHandler.RequestOTP)
	e.POST("/auth/otp/verify", passwordlessHandler.VerifyOTP)

	// Public storefront routes
	e.GET("/cars", carHandler.ListCars)
	e.GET("/cars/:id", carHandler.GetCar)
	e.POST("/send-booking-quote", bookingHandler.SendQuote)
	e.POST("/paystack/verify-payment", paymentHandler.VerifyPayment)
	e.GET("/testimonials", feedbackHandler.ListTestimonials)
	e.POST("/testimonials", feedbackHandler.AddTestimonial)
	e.POST("/support-message", feedbackHandler.SendSupportMessage)
	e.GET("/test-email", feedbackHandler.SendTestEmail)

	// Admin routes (require JWT with the admin claim)
	admin := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}), adminOnly)

	admin.POST("/cars", carHandler.CreateCar)
	admin.PUT("/cars/:id", carHandler.UpdateCar)
	admin.DELETE("/cars/:id", carHandler.DeleteCar)
	admin.GET("/bookings", bookingHandler.ListBookings)
	admin.DELETE("/bookings/:id", bookingHandler.DeleteBooking)
	admin.GET("/users", userHandler.ListUsers)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
}

// adminOnly rejects authenticated requests whose token lacks the admin claim.
func adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
