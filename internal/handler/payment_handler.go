package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"hoodrentals/internal/service"
)

// PaymentHandler handles payment verification endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// VerifyPaymentRequest carries the Paystack reference plus the optional
// booking context captured by the storefront at checkout.
type VerifyPaymentRequest struct {
	Reference      string                 `json:"reference"`
	Car            *CarPayload            `json:"car"`
	BookingDetails *BookingDetailsPayload `json:"bookingDetails"`
	User           json.RawMessage        `json:"user"`
	TotalAmount    interface{}            `json:"totalAmount"`
}

// VerifyPaymentResponse reports the verification outcome.
type VerifyPaymentResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID *uint  `json:"bookingId,omitempty"`
}

// VerifyPayment godoc
// @Summary Verify a Paystack payment and confirm the booking
// @Tags payments
// @Accept json
// @Produce json
// @Param request body VerifyPaymentRequest true "Payment reference and booking context"
// @Success 200 {object} VerifyPaymentResponse
// @Failure 400 {object} VerifyPaymentResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /paystack/verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if req.Reference == "" {
		return respondBadRequest(c, "Payment reference is required for verification.")
	}

	var bookingCtx *service.BookingContext
	if req.Car != nil && req.BookingDetails != nil && len(req.User) > 0 {
		user, err := decodeUserPayload(req.User)
		if err != nil {
			return respondBadRequest(c, "Invalid user data format.")
		}
		bookingCtx = &service.BookingContext{
			Car:         toCarSnapshot(req.Car),
			Details:     toBookingDetails(req.BookingDetails),
			Customer:    service.CustomerInfo{ID: user.ID, Username: user.Username, Email: user.Email},
			TotalAmount: coerceString(req.TotalAmount),
		}
	}

	result, err := h.paymentService.VerifyPayment(c.Request().Context(), req.Reference, bookingCtx)
	if err != nil {
		return respondError(c, err)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, VerifyPaymentResponse{
		Success:   result.Success,
		Message:   result.Message,
		BookingID: result.BookingID,
	})
}
