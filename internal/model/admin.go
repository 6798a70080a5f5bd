package model

import "time"

// Admin represents a tournament administrator. Admins are seeded at first
// boot or created with the seed tool, never through a public flow.
type Admin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}
