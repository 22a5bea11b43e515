package models

import (
	"time"
)

// RefreshToken is rotated on every refresh, so Token changes while ID stays.
type RefreshToken struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Token          string    `json:"token" gorm:"not null;uniqueIndex"`
	ExpirationDate time.Time `json:"expires_at" gorm:"not null"`
}
