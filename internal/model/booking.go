package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Booking is a persisted car-rental reservation.
//
// Car title and price are snapshotted at booking time so historical bookings
// are immune to later price changes. PaymentReference is a pointer so that
// unpaid bookings do not collide on the unique index; the index is what keeps
// duplicate payment confirmations from inserting a second row.
type Booking struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	UserID           *uint           `json:"user_id,omitempty" gorm:"index"`
	UserName         string          `json:"user_name,omitempty" gorm:"size:255"`
	UserEmail        string          `json:"user_email" gorm:"size:255;not null;index"`
	CarID            *uint           `json:"car_id,omitempty"`
	CarTitle         string          `json:"car_title" gorm:"size:255;not null"`
	CarPricePerDay   decimal.Decimal `json:"car_price_per_day" gorm:"type:decimal(10,2)"`
	Region           string          `json:"region,omitempty" gorm:"size:100"`
	City             string          `json:"city,omitempty" gorm:"size:100"`
	Area             string          `json:"area,omitempty" gorm:"size:100"`
	StartDate        time.Time       `json:"start_date" gorm:"type:date;not null"`
	EndDate          time.Time       `json:"end_date" gorm:"type:date;not null"`
	NumDays          int             `json:"num_days" gorm:"not null"`
	TotalAmount      decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentStatus    PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'unpaid';index"`
	PaymentReference *string         `json:"payment_reference,omitempty" gorm:"size:255;uniqueIndex"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
