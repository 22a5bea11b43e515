package services

import (
	"context"
	"fmt"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
)

const recentAds = 5

type Dashboard struct {
	repository.AdStats
	ByTier        map[models.Tier]int64 `json:"by_tier"`
	HeroLimit     int                   `json:"hero_limit"`
	HeroSlotsLeft int                   `json:"hero_slots_left"`
	Latest        []models.Ad           `json:"latest"`
}

type DashboardService struct {
	ads     repository.AdRepository
	heroCap ranking.HeroCap
}

func NewDashboardService(ads repository.AdRepository, heroCap ranking.HeroCap) *DashboardService {
	return &DashboardService{ads: ads, heroCap: heroCap}
}

func (s *DashboardService) Get(ctx context.Context, session *utils.Session) (*Dashboard, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	stats, err := s.ads.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	ads, err := s.ads.Find(ctx, ranking.Filter{Context: ranking.ContextAdmin})
	if err != nil {
		return nil, fmt.Errorf("dashboard ads: %w", err)
	}

	d := &Dashboard{
		AdStats:   stats,
		ByTier:    map[models.Tier]int64{},
		HeroLimit: s.heroCap.Limit,
	}
	for _, t := range models.Tiers {
		d.ByTier[t] = 0
	}
	for i := range ads {
		d.ByTier[ads[i].Tier]++
	}
	if s.heroCap.Limit > 0 {
		d.HeroSlotsLeft = s.heroCap.Limit - int(stats.LiveHeroes)
		if d.HeroSlotsLeft < 0 {
			d.HeroSlotsLeft = 0
		}
	}
	if len(ads) > recentAds {
		ads = ads[:recentAds]
	}
	d.Latest = ads
	return d, nil
}
