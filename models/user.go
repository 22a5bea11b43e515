package models

import (
	"time"

	"gorm.io/gorm"
)

const RoleAdmin = "admin"

// User is an admin panel account. The public site is anonymous.
type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Email         string         `gorm:"unique;not null" json:"email"`
	FullName      string         `json:"full_name"`
	Password      string         `gorm:"not null" json:"-"` // bcrypt hash
	Role          string         `gorm:"not null;default:admin" json:"role"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}
