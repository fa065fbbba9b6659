package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
)

func TestCarService_CreateCar(t *testing.T) {
	tests := []struct {
		name    string
		car     *model.Car
		wantErr error
	}{
		{
			name: "valid car",
			car:  &model.Car{Title: "Kia Sportage", PricePerDay: decimal.NewFromInt(400)},
		},
		{
			name:    "missing title",
			car:     &model.Car{PricePerDay: decimal.NewFromInt(400)},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "zero price",
			car:     &model.Car{Title: "Kia Sportage"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "negative price",
			car:     &model.Car{Title: "Kia Sportage", PricePerDay: decimal.NewFromInt(-1)},
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCarRepository)
			svc := NewCarService(repo, nil)
			if tt.wantErr == nil {
				repo.On("Create", mock.Anything, tt.car).Return(nil)
			}

			created, err := svc.CreateCar(context.Background(), tt.car)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.car, created)
		})
	}
}

func TestCarService_GetCar(t *testing.T) {
	repo := new(MockCarRepository)
	svc := NewCarService(repo, nil)
	repo.On("FindByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetCar(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrCarNotFound)
}

func TestCarService_UpdateCar(t *testing.T) {
	repo := new(MockCarRepository)
	svc := NewCarService(repo, nil)
	existing := &model.Car{
		ID:          2,
		Title:       "Toyota Corolla",
		PricePerDay: decimal.NewFromInt(250),
		Description: "Reliable sedan",
		Available:   true,
	}
	repo.On("FindByID", mock.Anything, uint(2)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.UpdateCar(context.Background(), 2, &model.Car{
		PricePerDay: decimal.NewFromInt(275),
		Available:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Toyota Corolla", updated.Title)
	assert.Equal(t, "275", updated.PricePerDay.String())
	assert.Equal(t, "Reliable sedan", updated.Description)
}

func TestCarService_ListCarsWithoutCache(t *testing.T) {
	repo := new(MockCarRepository)
	svc := NewCarService(repo, nil)
	fleet := []model.Car{{ID: 1, Title: "Toyota Corolla"}}
	repo.On("List", mock.Anything).Return(fleet, nil)

	cars, err := svc.ListCars(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, fleet, cars)
}
