package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car is a rentable vehicle in the fleet.
type Car struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null;index"`
	PricePerDay decimal.Decimal `json:"price_per_day" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"size:512"`
	Available   bool            `json:"available" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
