package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// stubPasswordless lets each test script the service outcome.
type stubPasswordless struct {
	issueFn           func(ctx context.Context, email string) (int, error)
	verifyMagicLinkFn func(ctx context.Context, token string) (*model.User, string, error)
	verifyOTPFn       func(ctx context.Context, email, code string) (*model.User, string, int, error)
}

func (s *stubPasswordless) IssueMagicLink(ctx context.Context, email string) (int, error) {
	return s.issueFn(ctx, email)
}

func (s *stubPasswordless) VerifyMagicLink(ctx context.Context, token string) (*model.User, string, error) {
	return s.verifyMagicLinkFn(ctx, token)
}

func (s *stubPasswordless) IssueOTP(ctx context.Context, email string) (int, error) {
	return s.issueFn(ctx, email)
}

func (s *stubPasswordless) VerifyOTP(ctx context.Context, email, code string) (*model.User, string, int, error) {
	return s.verifyOTPFn(ctx, email, code)
}

func newEchoContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPasswordlessHandler_RequestOTP(t *testing.T) {
	t.Run("issues and reports expiry", func(t *testing.T) {
		var gotEmail string
		h := NewPasswordlessHandler(&stubPasswordless{
			issueFn: func(_ context.Context, email string) (int, error) {
				gotEmail = email
				return 600, nil
			},
		})
		c, rec := newEchoContext(t, `{"email": "ESI@Example.com"}`)

		assert.NoError(t, h.RequestOTP(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "esi@example.com", gotEmail)

		var resp IssueResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 600, resp.ExpiresIn)
	})

	t.Run("missing email rejected", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{})
		c, rec := newEchoContext(t, `{}`)

		assert.NoError(t, h.RequestOTP(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("mail outage maps to 500", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{
			issueFn: func(_ context.Context, _ string) (int, error) {
				return 0, apperrors.ErrExternalService
			},
		})
		c, rec := newEchoContext(t, `{"email": "esi@example.com"}`)

		assert.NoError(t, h.RequestOTP(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp apperrors.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "external_service_error", resp.Code)
	})
}

func TestPasswordlessHandler_VerifyMagicLink(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "unknown token", serviceErr: apperrors.ErrInvalidOrExpired, wantStatus: http.StatusUnauthorized, wantCode: "invalid_or_expired"},
		{name: "expired token", serviceErr: apperrors.ErrExpired, wantStatus: http.StatusUnauthorized, wantCode: "expired"},
		{name: "deleted user", serviceErr: apperrors.ErrUserGone, wantStatus: http.StatusNotFound, wantCode: "user_gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPasswordlessHandler(&stubPasswordless{
				verifyMagicLinkFn: func(_ context.Context, _ string) (*model.User, string, error) {
					return nil, "", tt.serviceErr
				},
			})
			c, rec := newEchoContext(t, `{"token": "some-token"}`)

			assert.NoError(t, h.VerifyMagicLink(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp apperrors.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}

	t.Run("valid token returns user and auth token", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{
			verifyMagicLinkFn: func(_ context.Context, token string) (*model.User, string, error) {
				assert.Equal(t, "good-token", token)
				return &model.User{ID: 7, Email: "esi@example.com"}, "jwt-token", nil
			},
		})
		c, rec := newEchoContext(t, `{"token": "good-token"}`)

		assert.NoError(t, h.VerifyMagicLink(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "jwt-token", resp.Token)
		assert.Equal(t, uint(7), resp.User.ID)
	})
}

func TestPasswordlessHandler_VerifyOTP(t *testing.T) {
	t.Run("wrong code carries remaining attempts", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{
			verifyOTPFn: func(_ context.Context, _, _ string) (*model.User, string, int, error) {
				return nil, "", 4, apperrors.ErrInvalidCode
			},
		})
		c, rec := newEchoContext(t, `{"email": "esi@example.com", "code": "000000"}`)

		assert.NoError(t, h.VerifyOTP(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp apperrors.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_code", resp.Code)
		assert.NotNil(t, resp.AttemptsRemaining)
		assert.Equal(t, 4, *resp.AttemptsRemaining)
	})

	t.Run("attempt limit maps to 429", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{
			verifyOTPFn: func(_ context.Context, _, _ string) (*model.User, string, int, error) {
				return nil, "", 0, apperrors.ErrTooManyAttempts
			},
		})
		c, rec := newEchoContext(t, `{"email": "esi@example.com", "code": "123456"}`)

		assert.NoError(t, h.VerifyOTP(c))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		var resp apperrors.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "too_many_attempts", resp.Code)
		assert.Nil(t, resp.AttemptsRemaining)
	})

	t.Run("correct code returns auth token", func(t *testing.T) {
		h := NewPasswordlessHandler(&stubPasswordless{
			verifyOTPFn: func(_ context.Context, email, code string) (*model.User, string, int, error) {
				assert.Equal(t, "esi@example.com", email)
				assert.Equal(t, "123456", code)
				return &model.User{ID: 5}, "jwt-token", 0, nil
			},
		})
		c, rec := newEchoContext(t, `{"email": "esi@example.com", "code": "123456"}`)

		assert.NoError(t, h.VerifyOTP(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
