// Package repository persists ads, settings, analytics and admin accounts.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrHeroCapReached = errors.New("hero capacity reached")
	ErrDuplicate      = errors.New("record already exists")
)

// Clock is the time source used to evaluate expiration at read time.
type Clock func() time.Time

type AdStats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Expired     int64 `json:"expired"`
	LiveHeroes  int64 `json:"live_heroes"`
	MapListings int64 `json:"map_listings"`
}

// AdRepository stores ads. Create and Update enforce heroCap atomically with
// the write: the live hero count and the insert/update happen under one lock.
type AdRepository interface {
	Find(ctx context.Context, f ranking.Filter) ([]models.Ad, error)
	FindByID(ctx context.Context, id string) (*models.Ad, error)
	Create(ctx context.Context, ad *models.Ad, heroCap ranking.HeroCap) error
	Update(ctx context.Context, id string, patch models.AdPatch, heroCap ranking.HeroCap) (*models.Ad, error)
	Delete(ctx context.Context, id string) error
	CountLiveHeroes(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (AdStats, error)
}

// SettingRepository returns "" for missing keys rather than an error.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, setting models.SystemSetting) error
	List(ctx context.Context) ([]models.SystemSetting, error)
}

type EventRepository interface {
	Record(ctx context.Context, event *models.AnalyticsEvent) error
	Summary(ctx context.Context, since time.Time) ([]models.EventCount, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) (bool, error)
}

// Repositories bundles every store the application needs.
type Repositories struct {
	Ads      AdRepository
	Settings SettingRepository
	Events   EventRepository
	Users    UserRepository
}
