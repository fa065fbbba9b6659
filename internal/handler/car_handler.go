package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"hoodrentals/internal/model"
	"hoodrentals/internal/service"
)

// CarHandler handles car inventory endpoints.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CarRequest is the body for creating or updating a car. On update every
// field is optional; zero values leave the stored field untouched.
type CarRequest struct {
	Title       string `json:"title"`
	PricePerDay string `json:"price_per_day"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Available   *bool  `json:"available"`
}

// ListCars godoc
// @Summary List the car fleet
// @Tags cars
// @Produce json
// @Success 200 {array} model.Car
// @Router /cars [get]
func (h *CarHandler) ListCars(c echo.Context) error {
	cars, err := h.carService.ListCars(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cars)
}

// GetCar returns one car by id.
func (h *CarHandler) GetCar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return respondBadRequest(c, "invalid car id")
	}
	car, err := h.carService.GetCar(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// CreateCar adds a car to the fleet. Admin only.
func (h *CarHandler) CreateCar(c echo.Context) error {
	car, err := h.bindCar(c, true)
	if err != nil {
		return respondBadRequest(c, err.Error())
	}
	created, err := h.carService.CreateCar(c.Request().Context(), car)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"car":     created,
	})
}

// UpdateCar modifies a car. Admin only.
func (h *CarHandler) UpdateCar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return respondBadRequest(c, "invalid car id")
	}
	updates, err := h.bindCar(c, false)
	if err != nil {
		return respondBadRequest(c, err.Error())
	}
	updated, err := h.carService.UpdateCar(c.Request().Context(), uint(id), updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"car":     updated,
	})
}

// DeleteCar removes a car from the fleet. Admin only.
func (h *CarHandler) DeleteCar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return respondBadRequest(c, "invalid car id")
	}
	if err := h.carService.DeleteCar(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Car deleted.",
	})
}

func (h *CarHandler) bindCar(c echo.Context, requirePrice bool) (*model.Car, error) {
	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	car := &model.Car{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		car.Available = *req.Available
	}
	if req.PricePerDay != "" {
		price, err := decimal.NewFromString(req.PricePerDay)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid price_per_day")
		}
		car.PricePerDay = price
	} else if requirePrice {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "price_per_day is required")
	}
	return car, nil
}
