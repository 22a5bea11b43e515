package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/miramar-experience/api-go/models"
	"gorm.io/gorm"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

func (r *EventRepo) Summary(ctx context.Context, since time.Time) ([]models.EventCount, error) {
	var counts []models.EventCount
	err := r.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).
		Select("ad_id, event_type, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("ad_id, event_type").
		Order("total DESC, ad_id, event_type").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("event summary: %w", err)
	}
	return counts, nil
}
