package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/service"
)

// PasswordlessHandler handles magic-link and OTP endpoints.
type PasswordlessHandler struct {
	passwordless service.PasswordlessService
}

// NewPasswordlessHandler creates a new passwordless auth handler.
func NewPasswordlessHandler(passwordless service.PasswordlessService) *PasswordlessHandler {
	return &PasswordlessHandler{passwordless: passwordless}
}

// EmailRequest asks for a credential to be issued to an email address.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MagicLinkVerifyRequest presents a magic-link token.
type MagicLinkVerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// OTPVerifyRequest presents a one-time passcode.
type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// IssueResponse reports a successfully issued credential.
type IssueResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn"`
}

// RequestMagicLink godoc
// @Summary Email a single-use sign-in link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Target email"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/magic-link/request [post]
func (h *PasswordlessHandler) RequestMagicLink(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "A valid email is required.")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	expiresIn, err := h.passwordless.IssueMagicLink(c.Request().Context(), email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, IssueResponse{
		Success:   true,
		Message:   "Check your email for a sign-in link.",
		ExpiresIn: expiresIn,
	})
}

// VerifyMagicLink godoc
// @Summary Exchange a magic-link token for an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body MagicLinkVerifyRequest true "Magic-link token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/magic-link/verify [post]
func (h *PasswordlessHandler) VerifyMagicLink(c echo.Context) error {
	var req MagicLinkVerifyRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "A token is required.")
	}

	user, token, err := h.passwordless.VerifyMagicLink(c.Request().Context(), req.Token)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: user, Token: token})
}

// RequestOTP godoc
// @Summary Email a 6-digit login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Target email"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/otp/request [post]
func (h *PasswordlessHandler) RequestOTP(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "A valid email is required.")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	expiresIn, err := h.passwordless.IssueOTP(c.Request().Context(), email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, IssueResponse{
		Success:   true,
		Message:   "Check your email for a login code.",
		ExpiresIn: expiresIn,
	})
}

// VerifyOTP godoc
// @Summary Exchange a login code for an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPVerifyRequest true "Email and code"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/otp/verify [post]
func (h *PasswordlessHandler) VerifyOTP(c echo.Context) error {
	var req OTPVerifyRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "Email and code are required.")
	}

	user, token, remaining, err := h.passwordless.VerifyOTP(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCode) {
			httpErr := apperrors.MapErrorToHTTP(err)
			resp := httpErr.ToErrorResponse()
			resp.AttemptsRemaining = &remaining
			return c.JSON(httpErr.StatusCode, resp)
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: user, Token: token})
}
