package models

import "time"

type EventType string

const (
	EventViewDetail    EventType = "view_detail"
	EventClickWhatsApp EventType = "click_whatsapp"
	EventClickWebsite  EventType = "click_website"
	EventClickMap      EventType = "click_map"
)

func (e EventType) Valid() bool {
	switch e {
	case EventViewDetail, EventClickWhatsApp, EventClickWebsite, EventClickMap:
		return true
	}
	return false
}

type AnalyticsEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	AdID      string    `json:"ad_id" gorm:"type:uuid;not null;index"`
	EventType EventType `json:"event_type" gorm:"not null;type:varchar(32)"` // "view_detail", "click_whatsapp", etc.
}

// EventCount is one row of the per-ad analytics summary.
type EventCount struct {
	AdID      string    `json:"ad_id" gorm:"column:ad_id"`
	EventType EventType `json:"event_type" gorm:"column:event_type"`
	Total     int64     `json:"total" gorm:"column:total"`
}
