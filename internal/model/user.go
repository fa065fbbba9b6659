package model

import "time"

// User represents a registered customer or administrator.
//
// Users are created on signup, on the first passwordless or OAuth login for an
// unseen email, or by the seed command. The password column always holds a
// bcrypt hash; for auto-created users it hashes a random throwaway value.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}
