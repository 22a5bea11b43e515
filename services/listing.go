package services

import (
	"context"
	"errors"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/sheets"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ListingOptions struct {
	ReadTimeout time.Duration
	HeroSlots   int
	Carousel    ranking.CarouselOptions
	Promo       bool
}

type HomePage struct {
	Carousel *ranking.Carousel `json:"carousel"`
	Grid     ranking.Grid      `json:"grid"`
}

type CategoryInfo struct {
	Key   models.Category `json:"key"`
	Label string          `json:"label"`
}

type PlaceDetail struct {
	models.Ad
	CategoryLabel string                `json:"category_label"`
	WhatsAppURL   string                `json:"whatsapp_url,omitempty"`
	MapsURL       string                `json:"maps_url,omitempty"`
	Schedule      models.WeeklySchedule `json:"schedule,omitempty"`
}

type MapPin struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Tier     models.Tier     `json:"tier"`
	Category models.Category `json:"category"`
	ImageURL string          `json:"image_url"`
	Address  string          `json:"address,omitempty"`
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Path     string          `json:"path"`
}

// ListingService serves the anonymous pages. Every read is bounded by
// ReadTimeout and degrades to an empty result when the store fails.
type ListingService struct {
	ads  repository.AdRepository
	opts ListingOptions
	now  repository.Clock
	log  *zap.Logger
}

func NewListingService(ads repository.AdRepository, opts ListingOptions, now repository.Clock, log *zap.Logger) *ListingService {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.HeroSlots <= 0 {
		opts.HeroSlots = ranking.DefaultHeroLimit
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ListingService{ads: ads, opts: opts, now: now, log: log}
}

// Home loads the hero carousel and the bento grid concurrently.
func (s *ListingService) Home(ctx context.Context) *HomePage {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	var heroes, pool []models.Ad
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		heroes, err = s.ads.Find(gctx, ranking.Filter{
			Context: ranking.ContextHome,
			Tiers:   []models.Tier{models.TierHero},
			Limit:   s.opts.HeroSlots,
		})
		return err
	})
	g.Go(func() error {
		var err error
		pool, err = s.ads.Find(gctx, ranking.Filter{
			Context: ranking.ContextHome,
			Tiers:   []models.Tier{models.TierFeatured, models.TierStandard},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("home listing failed", zap.Error(err))
		heroes, pool = nil, nil
	}
	if heroes == nil {
		heroes = []models.Ad{}
	}

	return &HomePage{
		Carousel: ranking.NewCarousel(ranking.Rank(heroes), s.opts.Carousel),
		Grid:     ranking.Arrange(ranking.Rank(pool), s.opts.Promo),
	}
}

// Directory lists every visible ad, optionally narrowed by category and a
// free-text search.
func (s *ListingService) Directory(ctx context.Context, category, search string) ([]models.Ad, error) {
	f := ranking.Filter{Context: ranking.ContextDirectory, Search: search}
	if category != "" {
		c := models.Category(category)
		if !c.Valid() {
			return nil, invalid("category", "unknown category")
		}
		f.Category = c
	}
	return s.read(ctx, "directory", f), nil
}

func (s *ListingService) Map(ctx context.Context) []MapPin {
	ads := s.read(ctx, "map", ranking.Filter{Context: ranking.ContextMap})
	pins := make([]MapPin, 0, len(ads))
	for i := range ads {
		ad := &ads[i]
		pins = append(pins, MapPin{
			ID:       ad.ID,
			Name:     ad.BusinessName,
			Tier:     ad.Tier,
			Category: ad.Category,
			ImageURL: ad.ImageURL,
			Address:  ad.Address,
			Lat:      *ad.Lat,
			Lng:      *ad.Lng,
			Path:     sheets.DetailPath(ad),
		})
	}
	return pins
}

// Place returns a publicly visible ad. Paused and expired ads are not found.
func (s *ListingService) Place(ctx context.Context, id string) (*PlaceDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	ad, err := s.ads.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("place lookup failed", zap.String("ad_id", id), zap.Error(err))
		}
		return nil, ErrNotFound
	}
	if !ranking.Visible(ad, ranking.ContextDirectory, s.now()) {
		return nil, ErrNotFound
	}

	detail := &PlaceDetail{
		Ad:            *ad,
		CategoryLabel: ad.Category.Label(),
		MapsURL:       sheets.MapsURL(ad),
		WhatsAppURL:   utils.NormalizeWhatsAppURL(ad.Phone),
	}
	if utils.IsWhatsAppURL(ad.RedirectURL) {
		detail.WhatsAppURL = ad.RedirectURL
	}
	if schedule, err := ad.Schedule(); err != nil {
		s.log.Warn("bad opening hours", zap.String("ad_id", id), zap.Error(err))
	} else {
		detail.Schedule = schedule
	}
	return detail, nil
}

func (s *ListingService) Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = CategoryInfo{Key: c, Label: c.Label()}
	}
	return out
}

func (s *ListingService) read(ctx context.Context, what string, f ranking.Filter) []models.Ad {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	ads, err := s.ads.Find(ctx, f)
	if err != nil {
		s.log.Error("listing failed", zap.String("listing", what), zap.Error(err))
		return []models.Ad{}
	}
	return ranking.Rank(ads)
}
