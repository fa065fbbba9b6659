package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hoodrentals/internal/cache"
	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

const (
	carListCacheKey = "cars:list"
	carListCacheTTL = 5 * time.Minute
)

// CarService manages the rentable fleet.
type CarService interface {
	ListCars(ctx context.Context) ([]model.Car, error)
	GetCar(ctx context.Context, id uint) (*model.Car, error)
	CreateCar(ctx context.Context, car *model.Car) (*model.Car, error)
	UpdateCar(ctx context.Context, id uint, updates *model.Car) (*model.Car, error)
	DeleteCar(ctx context.Context, id uint) error
}

type carService struct {
	repo  repository.CarRepository
	cache *cache.Client
}

// NewCarService builds a CarService with repository and listing cache.
func NewCarService(repo repository.CarRepository, cache *cache.Client) CarService {
	return &carService{repo: repo, cache: cache}
}

func (s *carService) ListCars(ctx context.Context) ([]model.Car, error) {
	var cached []model.Car
	if s.cache.GetJSON(ctx, carListCacheKey, &cached) {
		return cached, nil
	}

	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, carListCacheKey, cars, carListCacheTTL)
	return cars, nil
}

func (s *carService) GetCar(ctx context.Context, id uint) (*model.Car, error) {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

func (s *carService) CreateCar(ctx context.Context, car *model.Car) (*model.Car, error) {
	if car.Title == "" || car.PricePerDay.IsNegative() || car.PricePerDay.IsZero() {
		return nil, fmt.Errorf("%w: title and a positive price per day are required", apperrors.ErrValidation)
	}
	if err := s.repo.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	s.cache.Delete(ctx, carListCacheKey)
	return car, nil
}

func (s *carService) UpdateCar(ctx context.Context, id uint, updates *model.Car) (*model.Car, error) {
	car, err := s.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		car.Title = updates.Title
	}
	if !updates.PricePerDay.IsZero() {
		car.PricePerDay = updates.PricePerDay
	}
	if updates.Description != "" {
		car.Description = updates.Description
	}
	if updates.ImageURL != "" {
		car.ImageURL = updates.ImageURL
	}
	car.Available = updates.Available

	if err := s.repo.Update(ctx, car); err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	s.cache.Delete(ctx, carListCacheKey)
	return car, nil
}

func (s *carService) DeleteCar(ctx context.Context, id uint) error {
	if _, err := s.GetCar(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	s.cache.Delete(ctx, carListCacheKey)
	return nil
}
