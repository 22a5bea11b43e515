package repository

import (
	"time"

	"gorm.io/gorm"
)

// NewGorm wires every repository to one postgres connection.
func NewGorm(db *gorm.DB, now Clock) *Repositories {
	if now == nil {
		now = time.Now
	}
	return &Repositories{
		Ads:      NewAdRepo(db, now),
		Settings: NewSettingRepo(db),
		Events:   NewEventRepo(db),
		Users:    NewUserRepo(db),
	}
}
