package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

const trackTimeout = 2 * time.Second

type AdEvents struct {
	AdID         string                     `json:"ad_id"`
	BusinessName string                     `json:"business_name"`
	Tier         models.Tier                `json:"tier,omitempty"`
	Counts       map[models.EventType]int64 `json:"counts"`
	Total        int64                      `json:"total"`
}

// AnalyticsService records visitor interactions without ever failing the
// visitor's request.
type AnalyticsService struct {
	events repository.EventRepository
	ads    repository.AdRepository
	now    repository.Clock
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewAnalyticsService(events repository.EventRepository, ads repository.AdRepository, now repository.Clock, log *zap.Logger) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsService{events: events, ads: ads, now: now, log: log}
}

// Track validates the event and stores it in the background. Storage
// failures are logged and dropped.
func (s *AnalyticsService) Track(ctx context.Context, adID string, eventType models.EventType) error {
	if adID == "" {
		return invalid("ad_id", "is required")
	}
	if !eventType.Valid() {
		return invalid("event_type", "unknown event type")
	}

	event := &models.AnalyticsEvent{AdID: adID, EventType: eventType, CreatedAt: s.now()}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), trackTimeout)
		defer cancel()
		if err := s.events.Record(ctx, event); err != nil {
			s.log.Warn("track event failed",
				zap.String("ad_id", adID),
				zap.String("event_type", string(eventType)),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until background writes have finished.
func (s *AnalyticsService) Wait() { s.wg.Wait() }

// Summary aggregates events from the last days per ad, busiest first.
func (s *AnalyticsService) Summary(ctx context.Context, session *utils.Session, days int) ([]AdEvents, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if days <= 0 {
		days = 30
	}
	counts, err := s.events.Summary(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}

	names := map[string]*models.Ad{}
	if ads, err := s.ads.Find(ctx, ranking.Filter{Context: ranking.ContextAdmin}); err == nil {
		for i := range ads {
			names[ads[i].ID] = &ads[i]
		}
	} else {
		s.log.Warn("analytics summary without ad names", zap.Error(err))
	}

	byAd := map[string]*AdEvents{}
	for _, c := range counts {
		e, ok := byAd[c.AdID]
		if !ok {
			e = &AdEvents{AdID: c.AdID, Counts: map[models.EventType]int64{}}
			if ad := names[c.AdID]; ad != nil {
				e.BusinessName, e.Tier = ad.BusinessName, ad.Tier
			}
			byAd[c.AdID] = e
		}
		e.Counts[c.EventType] += c.Total
		e.Total += c.Total
	}

	out := make([]AdEvents, 0, len(byAd))
	for _, e := range byAd {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].AdID < out[j].AdID
	})
	return out, nil
}
