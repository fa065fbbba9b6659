package service

import (
	"context"
	"fmt"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/mail"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

// FeedbackService handles testimonials and support-form messages.
type FeedbackService interface {
	AddTestimonial(ctx context.Context, name string, rating int, message string) (*model.Testimonial, error)
	ListTestimonials(ctx context.Context) ([]model.Testimonial, error)
	SendSupportMessage(ctx context.Context, name, email, subject, message string) error
	SendTestEmail(ctx context.Context) error
}

type feedbackService struct {
	testimonials repository.TestimonialRepository
	mailer       mail.Mailer
	mailFrom     string
	adminEmail   string
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(testimonials repository.TestimonialRepository, mailer mail.Mailer, mailFrom, adminEmail string) FeedbackService {
	return &feedbackService{
		testimonials: testimonials,
		mailer:       mailer,
		mailFrom:     mailFrom,
		adminEmail:   adminEmail,
	}
}

func (s *feedbackService) AddTestimonial(ctx context.Context, name string, rating int, message string) (*model.Testimonial, error) {
	if name == "" || message == "" || rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: name, message, and a rating between 1 and 5 are required", apperrors.ErrValidation)
	}
	testimonial := &model.Testimonial{
		Name:    name,
		Rating:  rating,
		Message: message,
	}
	if err := s.testimonials.Create(ctx, testimonial); err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return testimonial, nil
}

func (s *feedbackService) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return s.testimonials.List(ctx)
}

func (s *feedbackService) SendSupportMessage(ctx context.Context, name, email, subject, message string) error {
	msg := mail.Message{
		From:    s.mailFrom,
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Support Form: %s", subject),
		HTML:    mail.SupportHTML(name, email, message),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send support email: %v", apperrors.ErrExternalService, err)
	}
	return nil
}

func (s *feedbackService) SendTestEmail(ctx context.Context) error {
	msg := mail.Message{
		From:    s.mailFrom,
		To:      s.adminEmail,
		Subject: "Resend Test Email",
		HTML:    mail.TestHTML(),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send test email: %v", apperrors.ErrExternalService, err)
	}
	return nil
}
