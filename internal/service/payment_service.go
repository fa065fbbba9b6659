package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/mail"
	"hoodrentals/internal/model"
	"hoodrentals/internal/paystack"
	"hoodrentals/internal/repository"
)

// BookingContext is the optional booking payload accompanying a payment
// verification request. When present, a paid booking row is persisted.
type BookingContext struct {
	Car         CarSnapshot
	Details     BookingDetails
	Customer    CustomerInfo
	TotalAmount string
}

// PaymentResult is the outcome of a verification. A rejected payment is a
// business outcome, not an error: Success is false and Message carries the
// authority's reason.
type PaymentResult struct {
	Success   bool
	Message   string
	BookingID *uint
}

// PaymentService verifies payment references with Paystack and persists the
// resulting booking.
type PaymentService interface {
	VerifyPayment(ctx context.Context, reference string, booking *BookingContext) (*PaymentResult, error)
}

type paymentService struct {
	bookings   repository.BookingRepository
	verifier   paystack.Verifier
	mailer     mail.Mailer
	mailFrom   string
	adminEmail string
}

// NewPaymentService creates a new payment verification service.
func NewPaymentService(bookings repository.BookingRepository, verifier paystack.Verifier, mailer mail.Mailer, mailFrom, adminEmail string) PaymentService {
	return &paymentService{
		bookings:   bookings,
		verifier:   verifier,
		mailer:     mailer,
		mailFrom:   mailFrom,
		adminEmail: adminEmail,
	}
}

func (s *paymentService) VerifyPayment(ctx context.Context, reference string, booking *BookingContext) (*PaymentResult, error) {
	// A reference that already produced a paid booking is settled; repeating
	// the call must not insert a second row.
	existing, err := s.bookings.FindByPaymentReference(ctx, reference)
	if err == nil {
		return &PaymentResult{
			Success:   true,
			Message:   "Payment already verified and booking confirmed.",
			BookingID: &existing.ID,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup payment reference: %w", err)
	}

	resp, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalService, err)
	}

	if !resp.Succeeded() {
		message := resp.Message
		if message == "" {
			message = "Payment verification failed."
		}
		return &PaymentResult{Success: false, Message: message}, nil
	}

	result := &PaymentResult{Success: true, Message: "Payment verified and booking confirmed."}

	if booking != nil {
		row, err := assembleBooking(booking.Car, booking.Details, booking.Customer, booking.TotalAmount, model.PaymentStatusPaid, &reference)
		if err != nil {
			return nil, err
		}
		if err := s.bookings.Create(ctx, row); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent verification of the same reference won the
				// insert; report its booking instead.
				if winner, findErr := s.bookings.FindByPaymentReference(ctx, reference); findErr == nil {
					result.Message = "Payment already verified and booking confirmed."
					result.BookingID = &winner.ID
					return result, nil
				}
			}
			return nil, fmt.Errorf("create booking: %w", err)
		}
		result.BookingID = &row.ID
	}

	amountPaid := decimal.NewFromInt(resp.Data.Amount).Div(decimal.NewFromInt(100)).StringFixed(2)
	msg := mail.Message{
		From:    s.mailFrom,
		To:      s.adminEmail,
		Subject: "Your Car Rental Booking is Confirmed!",
		HTML:    mail.ConfirmationHTML(resp.Data.Customer.FirstName, reference, amountPaid, resp.Data.Customer.Email),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The payment is already settled and durable; the receipt is
		// best-effort.
		log.Printf("payment %s verified but confirmation email failed: %v", reference, err)
	}

	return result, nil
}
