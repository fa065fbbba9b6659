package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidOrExpired is returned when a presented credential is unknown or already consumed.
	ErrInvalidOrExpired = errors.New("invalid or expired credential")
	// ErrExpired is returned when a credential is found but its expiry has passed.
	ErrExpired = errors.New("credential has expired")
	// ErrInvalidCode is returned when an OTP code does not match.
	ErrInvalidCode = errors.New("incorrect code")
	// ErrTooManyAttempts is returned when the OTP attempt limit is reached.
	ErrTooManyAttempts = errors.New("too many failed attempts")
	// ErrUserGone is returned when the user vanished between issuance and verification.
	ErrUserGone = errors.New("user no longer exists")
	// ErrInvalidCredentials is returned when login identifier or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned at signup when the username already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned at signup when the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrCarNotFound is returned when a car lookup misses.
	ErrCarNotFound = errors.New("car not found")
	// ErrBookingNotFound is returned when a booking lookup misses.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrExternalService is returned when an outbound provider call fails.
	ErrExternalService = errors.New("external service error")
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("invalid request")
)

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	Code              string `json:"code,omitempty"`
	AttemptsRemaining *int   `json:"attemptsRemaining,omitempty"`
}

// HTTPError pairs a domain error with its transport representation.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to the wire format.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidOrExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "invalid_or_expired")
	case errors.Is(err, ErrExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "expired")
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "invalid_code")
	case errors.Is(err, ErrTooManyAttempts):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "too_many_attempts")
	case errors.Is(err, ErrUserGone):
		return NewHTTPError(http.StatusNotFound, err.Error(), "user_gone")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "invalid_credentials")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "username_taken")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "email_taken")
	case errors.Is(err, ErrCarNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, ErrExternalService):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "external_service_error")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "validation_error")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "internal_error")
	}
}
