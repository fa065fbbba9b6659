package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"hoodrentals/internal/service"
)

// BookingHandler handles quote and booking-administration endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CarPayload is the car portion of a quote or payment request. Price is
// untyped because the storefront sends either a number or a formatted string.
type CarPayload struct {
	ID    *uint       `json:"id"`
	Title string      `json:"title"`
	Price interface{} `json:"price"`
}

// BookingDetailsPayload mirrors the storefront's selection fields.
type BookingDetailsPayload struct {
	SelectedRegion string `json:"selectedRegion"`
	SelectedCity   string `json:"selectedCity"`
	SelectedArea   string `json:"selectedArea"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	NumDays        int    `json:"numDays"`
}

// UserPayload identifies the requesting customer.
type UserPayload struct {
	ID       *uint  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// QuoteRequest is the body of a booking quote request. User is raw because
// some storefront builds wrap it in a single-element array.
type QuoteRequest struct {
	Car            *CarPayload            `json:"car"`
	BookingDetails *BookingDetailsPayload `json:"bookingDetails"`
	User           json.RawMessage        `json:"user"`
}

// QuoteResponse acknowledges a sent quote.
type QuoteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID uint   `json:"bookingId"`
}

// SendQuote godoc
// @Summary Persist an unpaid booking and email a quote
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Quote request"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /send-booking-quote [post]
func (h *BookingHandler) SendQuote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if req.Car == nil || req.BookingDetails == nil || len(req.User) == 0 {
		return respondBadRequest(c, "Invalid request: Missing car, booking, or user details.")
	}

	user, err := decodeUserPayload(req.User)
	if err != nil {
		return respondBadRequest(c, "Invalid user data format.")
	}

	booking, err := h.bookingService.SendQuote(
		c.Request().Context(),
		toCarSnapshot(req.Car),
		toBookingDetails(req.BookingDetails),
		service.CustomerInfo{ID: user.ID, Username: user.Username, Email: user.Email},
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, QuoteResponse{
		Success:   true,
		Message:   "Booking quote sent successfully.",
		BookingID: booking.ID,
	})
}

// ListBookings godoc
// @Summary List all bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.bookingService.ListBookings(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// DeleteBooking removes a booking. Admin only.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return respondBadRequest(c, "invalid booking id")
	}
	if err := h.bookingService.DeleteBooking(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Booking deleted.",
	})
}

// decodeUserPayload accepts either a user object or a single-element array
// wrapping one.
func decodeUserPayload(raw json.RawMessage) (*UserPayload, error) {
	var user UserPayload
	if err := json.Unmarshal(raw, &user); err == nil {
		return &user, nil
	}
	var users []UserPayload
	if err := json.Unmarshal(raw, &users); err == nil && len(users) > 0 {
		return &users[0], nil
	}
	return nil, fmt.Errorf("user payload is neither an object nor a non-empty array")
}

func toCarSnapshot(car *CarPayload) service.CarSnapshot {
	return service.CarSnapshot{
		ID:    car.ID,
		Title: car.Title,
		Price: coerceString(car.Price),
	}
}

func toBookingDetails(details *BookingDetailsPayload) service.BookingDetails {
	return service.BookingDetails{
		Region:    details.SelectedRegion,
		City:      details.SelectedCity,
		Area:      details.SelectedArea,
		StartDate: details.StartDate,
		EndDate:   details.EndDate,
		NumDays:   details.NumDays,
	}
}

// coerceString renders a JSON value that may be a number or string.
func coerceString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
