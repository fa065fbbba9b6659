package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "hoodrentals/internal/errors"
)

// respondError maps a domain error onto the wire format shared by every
// endpoint: {success:false, message, code}.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{
		Success: false,
		Message: message,
		Code:    "validation_error",
	})
}
