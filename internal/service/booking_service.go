package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/mail"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

// CarSnapshot is the car data captured at booking time. Price arrives from
// the client as free text and may carry a currency prefix.
type CarSnapshot struct {
	ID    *uint
	Title string
	Price string
}

// BookingDetails is the location and date selection for a booking.
type BookingDetails struct {
	Region    string
	City      string
	Area      string
	StartDate string
	EndDate   string
	NumDays   int
}

// CustomerInfo identifies the customer attached to a booking.
type CustomerInfo struct {
	ID       *uint
	Username string
	Email    string
}

// BookingService creates quote bookings and exposes the admin surface.
type BookingService interface {
	// SendQuote persists an unpaid booking and emails the quote. A failed
	// email is logged, not fatal: the booking is already durable.
	SendQuote(ctx context.Context, car CarSnapshot, details BookingDetails, customer CustomerInfo) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	DeleteBooking(ctx context.Context, id uint) error
}

type bookingService struct {
	repo       repository.BookingRepository
	mailer     mail.Mailer
	mailFrom   string
	adminEmail string
}

// NewBookingService creates a new booking service.
func NewBookingService(repo repository.BookingRepository, mailer mail.Mailer, mailFrom, adminEmail string) BookingService {
	return &bookingService{
		repo:       repo,
		mailer:     mailer,
		mailFrom:   mailFrom,
		adminEmail: adminEmail,
	}
}

func (s *bookingService) SendQuote(ctx context.Context, car CarSnapshot, details BookingDetails, customer CustomerInfo) (*model.Booking, error) {
	booking, err := assembleBooking(car, details, customer, "", model.PaymentStatusUnpaid, nil)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	quote := mail.QuoteDetails{
		Username:    customer.Username,
		Email:       customer.Email,
		CarTitle:    booking.CarTitle,
		PricePerDay: booking.CarPricePerDay.StringFixed(2),
		Region:      booking.Region,
		City:        booking.City,
		Area:        booking.Area,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		NumDays:     booking.NumDays,
		TotalAmount: booking.TotalAmount.StringFixed(2),
	}
	msg := mail.Message{
		From:    s.mailFrom,
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Your Quote for %s", booking.CarTitle),
		HTML:    mail.QuoteHTML(quote),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("booking %d saved but quote email failed: %v", booking.ID, err)
	}

	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.repo.List(ctx)
}

func (s *bookingService) DeleteBooking(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBookingNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// assembleBooking validates the quote payload and builds a booking row with
// the car snapshot and computed total. totalOverride, when parseable, wins
// over the computed price-per-day times day-count figure.
func assembleBooking(car CarSnapshot, details BookingDetails, customer CustomerInfo, totalOverride string, status model.PaymentStatus, reference *string) (*model.Booking, error) {
	if car.Title == "" || car.Price == "" || details.StartDate == "" || details.NumDays <= 0 || customer.Email == "" {
		return nil, fmt.Errorf("%w: car title, price, start date, number of days, and user email are required", apperrors.ErrValidation)
	}

	price, err := parsePrice(car.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable car price %q", apperrors.ErrValidation, car.Price)
	}

	start, err := parseDate(details.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable start date %q", apperrors.ErrValidation, details.StartDate)
	}
	var end time.Time
	if details.EndDate != "" {
		if end, err = parseDate(details.EndDate); err != nil {
			return nil, fmt.Errorf("%w: unparseable end date %q", apperrors.ErrValidation, details.EndDate)
		}
	} else {
		end = start.AddDate(0, 0, details.NumDays)
	}

	total := price.Mul(decimal.NewFromInt(int64(details.NumDays))).Round(2)
	if totalOverride != "" {
		if parsed, err := parsePrice(totalOverride); err == nil {
			total = parsed.Round(2)
		}
	}

	return &model.Booking{
		UserID:           customer.ID,
		UserName:         customer.Username,
		UserEmail:        strings.ToLower(strings.TrimSpace(customer.Email)),
		CarID:            car.ID,
		CarTitle:         car.Title,
		CarPricePerDay:   price.Round(2),
		Region:           details.Region,
		City:             details.City,
		Area:             details.Area,
		StartDate:        start,
		EndDate:          end,
		NumDays:          details.NumDays,
		TotalAmount:      total,
		PaymentStatus:    status,
		PaymentReference: reference,
	}, nil
}

// parsePrice strips currency symbols and thousands separators before parsing,
// mirroring how the storefront sends values like "GH¢100.00".
func parsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", raw)
	}
	return decimal.NewFromString(b.String())
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}
