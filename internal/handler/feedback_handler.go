package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hoodrentals/internal/service"
)

// FeedbackHandler handles testimonials, the support form, and the email
// smoke-test endpoint.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// TestimonialRequest is the body for submitting a testimonial.
type TestimonialRequest struct {
	Name    string `json:"name" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Message string `json:"message" validate:"required"`
}

// SupportMessageRequest is the body of the storefront support form.
type SupportMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// AddTestimonial godoc
// @Summary Submit a testimonial
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body TestimonialRequest true "Testimonial"
// @Success 201 {object} model.Testimonial
// @Failure 400 {object} errors.ErrorResponse
// @Router /testimonials [post]
func (h *FeedbackHandler) AddTestimonial(c echo.Context) error {
	var req TestimonialRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "Name, message, and a rating between 1 and 5 are required.")
	}

	testimonial, err := h.feedbackService.AddTestimonial(c.Request().Context(), req.Name, req.Rating, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":     true,
		"testimonial": testimonial,
	})
}

// ListTestimonials godoc
// @Summary List testimonials, newest first
// @Tags feedback
// @Produce json
// @Success 200 {array} model.Testimonial
// @Router /testimonials [get]
func (h *FeedbackHandler) ListTestimonials(c echo.Context) error {
	testimonials, err := h.feedbackService.ListTestimonials(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, testimonials)
}

// SendSupportMessage godoc
// @Summary Relay a support-form message to the site operator
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body SupportMessageRequest true "Support message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /support-message [post]
func (h *FeedbackHandler) SendSupportMessage(c echo.Context) error {
	var req SupportMessageRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "All fields are required.")
	}

	err := h.feedbackService.SendSupportMessage(c.Request().Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Support message sent successfully.",
	})
}

// SendTestEmail fires a canned message at the operator inbox to confirm the
// mail provider is wired.
func (h *FeedbackHandler) SendTestEmail(c echo.Context) error {
	if err := h.feedbackService.SendTestEmail(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Test email sent.",
	})
}
