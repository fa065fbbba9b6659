package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
	"hoodrentals/internal/paystack"
)

func successfulVerifyResponse(reference string) *paystack.VerifyResponse {
	return &paystack.VerifyResponse{
		Status:  true,
		Message: "Verification successful",
		Data: paystack.TransactionData{
			Status:    "success",
			Reference: reference,
			Amount:    30000,
			Customer: paystack.Customer{
				FirstName: "Ama",
				Email:     "ama@example.com",
			},
		},
	}
}

func paymentBookingContext() *BookingContext {
	car, details, customer := sampleQuoteInput()
	return &BookingContext{
		Car:         car,
		Details:     details,
		Customer:    customer,
		TotalAmount: "300.00",
	}
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	t.Run("settled reference is idempotent", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		svc := NewPaymentService(repo, verifier, &fakeMailer{}, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-1").
			Return(&model.Booking{ID: 42}, nil)

		result, err := svc.VerifyPayment(context.Background(), "ref-1", paymentBookingContext())
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, uint(42), *result.BookingID)
		verifier.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejected payment is an outcome, not an error", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		svc := NewPaymentService(repo, verifier, &fakeMailer{}, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-2").
			Return(nil, gorm.ErrRecordNotFound)
		verifier.On("VerifyTransaction", mock.Anything, "ref-2").
			Return(&paystack.VerifyResponse{
				Status:  true,
				Message: "Transaction declined",
				Data:    paystack.TransactionData{Status: "failed"},
			}, nil)

		result, err := svc.VerifyPayment(context.Background(), "ref-2", paymentBookingContext())
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Transaction declined", result.Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("transport failure maps to external service error", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		svc := NewPaymentService(repo, verifier, &fakeMailer{}, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-3").
			Return(nil, gorm.ErrRecordNotFound)
		verifier.On("VerifyTransaction", mock.Anything, "ref-3").
			Return(nil, errors.New("connection refused"))

		_, err := svc.VerifyPayment(context.Background(), "ref-3", paymentBookingContext())
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
	})

	t.Run("successful payment persists a paid booking and emails a receipt", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		mailer := &fakeMailer{}
		svc := NewPaymentService(repo, verifier, mailer, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-4").
			Return(nil, gorm.ErrRecordNotFound)
		verifier.On("VerifyTransaction", mock.Anything, "ref-4").
			Return(successfulVerifyResponse("ref-4"), nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Booking) bool {
			return b.PaymentStatus == model.PaymentStatusPaid &&
				b.PaymentReference != nil && *b.PaymentReference == "ref-4" &&
				b.TotalAmount.StringFixed(2) == "300.00"
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Booking).ID = 77
		})

		result, err := svc.VerifyPayment(context.Background(), "ref-4", paymentBookingContext())
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, uint(77), *result.BookingID)

		sent := mailer.messages()
		assert.Len(t, sent, 1)
		// Amount comes from the authority in subunits: 30000 pesewas = 300.00.
		assert.Contains(t, sent[0].HTML, "GHS 300.00")
		repo.AssertExpectations(t)
	})

	t.Run("successful payment without booking context still succeeds", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		svc := NewPaymentService(repo, verifier, &fakeMailer{}, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-5").
			Return(nil, gorm.ErrRecordNotFound)
		verifier.On("VerifyTransaction", mock.Anything, "ref-5").
			Return(successfulVerifyResponse("ref-5"), nil)

		result, err := svc.VerifyPayment(context.Background(), "ref-5", nil)
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Nil(t, result.BookingID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost insert race reports the winner's booking", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		svc := NewPaymentService(repo, verifier, &fakeMailer{}, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-6").
			Return(nil, gorm.ErrRecordNotFound).Once()
		verifier.On("VerifyTransaction", mock.Anything, "ref-6").
			Return(successfulVerifyResponse("ref-6"), nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
		repo.On("FindByPaymentReference", mock.Anything, "ref-6").
			Return(&model.Booking{ID: 88}, nil)

		result, err := svc.VerifyPayment(context.Background(), "ref-6", paymentBookingContext())
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, uint(88), *result.BookingID)
	})

	t.Run("receipt failure does not fail the verification", func(t *testing.T) {
		repo := new(MockBookingRepository)
		verifier := new(MockPaymentVerifier)
		mailer := &fakeMailer{err: errors.New("provider down")}
		svc := NewPaymentService(repo, verifier, mailer, "onboarding@resend.dev", "ops@example.com")

		repo.On("FindByPaymentReference", mock.Anything, "ref-7").
			Return(nil, gorm.ErrRecordNotFound)
		verifier.On("VerifyTransaction", mock.Anything, "ref-7").
			Return(successfulVerifyResponse("ref-7"), nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.VerifyPayment(context.Background(), "ref-7", paymentBookingContext())
		assert.NoError(t, err)
		assert.True(t, result.Success)
	})
}
