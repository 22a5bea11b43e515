package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AdInput is the payload for creating an ad.
type AdInput struct {
	BusinessName      string                `json:"business_name" validate:"required,min=2,max=100"`
	Description       string                `json:"description" validate:"max=140"`
	LongDescription   string                `json:"long_description" validate:"max=4000"`
	ImageURL          string                `json:"image_url" validate:"required,url"`
	GalleryURLs       []string              `json:"gallery_urls" validate:"max=12,dive,url"`
	Tier              models.Tier           `json:"tier" validate:"required,oneof=hero featured standard"`
	Category          models.Category       `json:"category" validate:"required,oneof=gastronomy lodging shopping adventure nightlife"`
	Priority          *int                  `json:"priority" validate:"omitempty,min=0,max=100"`
	IsActive          *bool                 `json:"is_active"`
	ExpirationDate    *time.Time            `json:"expiration_date"`
	IsPermanent       bool                  `json:"is_permanent"`
	RedirectURL       string                `json:"redirect_url" validate:"max=500"`
	Phone             string                `json:"phone" validate:"max=32"`
	InstagramUsername string                `json:"instagram_username" validate:"max=64"`
	WebsiteURL        string                `json:"website_url" validate:"omitempty,url"`
	PriceRange        string                `json:"price_range" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Features          []string              `json:"features" validate:"max=20,dive,min=1,max=40"`
	OpeningHours      models.WeeklySchedule `json:"opening_hours"`
	Lat               *float64              `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng               *float64              `json:"lng" validate:"omitempty,min=-180,max=180"`
	Address           string                `json:"address" validate:"max=200"`
	ShowOnMap         *bool                 `json:"show_on_map"`
}

// AdUpdate is a partial update. Absent fields are left untouched; Lat and
// Lng are cleared with ClearLocation.
type AdUpdate struct {
	BusinessName      *string                `json:"business_name" validate:"omitempty,min=2,max=100"`
	Description       *string                `json:"description" validate:"omitempty,max=140"`
	LongDescription   *string                `json:"long_description" validate:"omitempty,max=4000"`
	ImageURL          *string                `json:"image_url" validate:"omitempty,url"`
	GalleryURLs       *[]string              `json:"gallery_urls" validate:"omitempty,max=12,dive,url"`
	Tier              *models.Tier           `json:"tier" validate:"omitempty,oneof=hero featured standard"`
	Category          *models.Category       `json:"category" validate:"omitempty,oneof=gastronomy lodging shopping adventure nightlife"`
	Priority          *int                   `json:"priority" validate:"omitempty,min=0,max=100"`
	IsActive          *bool                  `json:"is_active"`
	ExpirationDate    *time.Time             `json:"expiration_date"`
	IsPermanent       *bool                  `json:"is_permanent"`
	RedirectURL       *string                `json:"redirect_url" validate:"omitempty,max=500"`
	Phone             *string                `json:"phone" validate:"omitempty,max=32"`
	InstagramUsername *string                `json:"instagram_username" validate:"omitempty,max=64"`
	WebsiteURL        *string                `json:"website_url" validate:"omitempty,url"`
	PriceRange        *string                `json:"price_range" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	Features          *[]string              `json:"features" validate:"omitempty,max=20,dive,min=1,max=40"`
	OpeningHours      *models.WeeklySchedule `json:"opening_hours"`
	Lat               *float64               `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng               *float64               `json:"lng" validate:"omitempty,min=-180,max=180"`
	ClearLocation     bool                   `json:"clear_location"`
	Address           *string                `json:"address" validate:"omitempty,max=200"`
	ShowOnMap         *bool                  `json:"show_on_map"`
}

// AdListQuery narrows the admin ad list.
type AdListQuery struct {
	Tier     models.Tier
	Category models.Category
	Search   string
}

// AdService administers ads. Every method requires an admin session.
type AdService struct {
	ads      repository.AdRepository
	heroCap  ranking.HeroCap
	notifier ChangeNotifier
	now      repository.Clock
	log      *zap.Logger
}

func NewAdService(ads repository.AdRepository, heroCap ranking.HeroCap, notifier ChangeNotifier, now repository.Clock, log *zap.Logger) *AdService {
	if notifier == nil {
		notifier = Notifiers{}
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AdService{ads: ads, heroCap: heroCap, notifier: notifier, now: now, log: log}
}

func (s *AdService) HeroLimit() int { return s.heroCap.Limit }

func (s *AdService) List(ctx context.Context, session *utils.Session, q AdListQuery) ([]models.Ad, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	f := ranking.Filter{Context: ranking.ContextAdmin, Category: q.Category, Search: q.Search}
	if q.Tier != "" {
		f.Tiers = []models.Tier{q.Tier}
	}
	ads, err := s.ads.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	return ads, nil
}

func (s *AdService) Get(ctx context.Context, session *utils.Session, id string) (*models.Ad, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	return s.ads.FindByID(ctx, id)
}

func (s *AdService) Create(ctx context.Context, session *utils.Session, in AdInput) (*models.Ad, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}

	ad := &models.Ad{
		BusinessName:      strings.TrimSpace(in.BusinessName),
		Description:       strings.TrimSpace(in.Description),
		LongDescription:   strings.TrimSpace(in.LongDescription),
		ImageURL:          in.ImageURL,
		GalleryURLs:       append([]string{}, in.GalleryURLs...),
		Tier:              in.Tier,
		Category:          in.Category,
		Priority:          in.Tier.DefaultPriority(),
		IsActive:          true,
		IsPermanent:       in.IsPermanent,
		RedirectURL:       utils.NormalizeWhatsAppURL(in.RedirectURL),
		Phone:             strings.TrimSpace(in.Phone),
		InstagramUsername: normalizeInstagram(in.InstagramUsername),
		WebsiteURL:        in.WebsiteURL,
		PriceRange:        in.PriceRange,
		Features:          normalizeFeatures(in.Features),
		Lat:               in.Lat,
		Lng:               in.Lng,
		Address:           strings.TrimSpace(in.Address),
		ShowOnMap:         true,
	}
	if in.Priority != nil {
		ad.Priority = *in.Priority
	}
	if in.IsActive != nil {
		ad.IsActive = *in.IsActive
	}
	if in.ShowOnMap != nil {
		ad.ShowOnMap = *in.ShowOnMap
	}
	if in.ExpirationDate != nil {
		ad.ExpirationDate = in.ExpirationDate.UTC()
	} else {
		ad.ExpirationDate = s.now().UTC()
	}
	if in.OpeningHours != nil {
		raw, err := json.Marshal(in.OpeningHours)
		if err != nil {
			return nil, fmt.Errorf("encode opening hours: %w", err)
		}
		ad.OpeningHours = datatypes.JSON(raw)
	}

	if err := s.ads.Create(ctx, ad, s.heroCap); err != nil {
		return nil, s.writeError("create", err)
	}

	s.log.Info("ad created",
		zap.String("ad_id", ad.ID),
		zap.String("tier", string(ad.Tier)),
		zap.Uint("user_id", session.UserID),
	)
	s.notifier.Invalidate(ctx, AdChangePaths...)
	return ad, nil
}

func (s *AdService) Update(ctx context.Context, session *utils.Session, id string, in AdUpdate) (*models.Ad, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	patch, err := s.patchFrom(&in)
	if err != nil {
		return nil, err
	}

	ad, err := s.ads.Update(ctx, id, patch, s.heroCap)
	if err != nil {
		return nil, s.writeError("update", err)
	}

	s.log.Info("ad updated", zap.String("ad_id", id), zap.Uint("user_id", session.UserID))
	s.notifier.Invalidate(ctx, AdChangePaths...)
	return ad, nil
}

// SetStatus pauses or resumes an ad. Resuming a hero is subject to the cap.
func (s *AdService) SetStatus(ctx context.Context, session *utils.Session, id string, active bool) (*models.Ad, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	ad, err := s.ads.Update(ctx, id, models.AdPatch{IsActive: &active}, s.heroCap)
	if err != nil {
		return nil, s.writeError("toggle", err)
	}

	s.log.Info("ad status changed", zap.String("ad_id", id), zap.Bool("active", active))
	s.notifier.Invalidate(ctx, AdChangePaths...)
	return ad, nil
}

func (s *AdService) Delete(ctx context.Context, session *utils.Session, id string) error {
	if !session.IsAdmin() {
		return ErrUnauthorized
	}
	if err := s.ads.Delete(ctx, id); err != nil {
		return s.writeError("delete", err)
	}

	s.log.Info("ad deleted", zap.String("ad_id", id), zap.Uint("user_id", session.UserID))
	s.notifier.Invalidate(ctx, AdChangePaths...)
	return nil
}

func (s *AdService) writeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrHeroCapReached):
		return &CapacityError{Limit: s.heroCap.Limit}
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	}
	s.log.Error("ad write failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s ad: %w", op, err)
}

func (s *AdService) validateInput(in *AdInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.ExpirationDate == nil && !in.IsPermanent {
		return invalid("expiration_date", "is required unless the ad is permanent")
	}
	if in.ExpirationDate != nil && !in.IsPermanent && !in.ExpirationDate.After(s.now()) {
		return invalid("expiration_date", "must not be in the past")
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		return invalid("lat", "lat and lng must be set together")
	}
	if err := validateSchedule(in.OpeningHours); err != nil {
		return err
	}
	return nil
}

func (s *AdService) patchFrom(in *AdUpdate) (models.AdPatch, error) {
	if err := validateStruct(in); err != nil {
		return models.AdPatch{}, err
	}
	if in.ClearLocation && (in.Lat != nil || in.Lng != nil) {
		return models.AdPatch{}, invalid("clear_location", "cannot be combined with lat or lng")
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		return models.AdPatch{}, invalid("lat", "lat and lng must be set together")
	}
	if in.BusinessName != nil && strings.TrimSpace(*in.BusinessName) == "" {
		return models.AdPatch{}, invalid("business_name", "is required")
	}

	p := models.AdPatch{
		BusinessName:    trimmed(in.BusinessName),
		Description:     trimmed(in.Description),
		LongDescription: trimmed(in.LongDescription),
		ImageURL:        in.ImageURL,
		GalleryURLs:     in.GalleryURLs,
		Tier:            in.Tier,
		Category:        in.Category,
		Priority:        in.Priority,
		IsActive:        in.IsActive,
		IsPermanent:     in.IsPermanent,
		Phone:           trimmed(in.Phone),
		WebsiteURL:      in.WebsiteURL,
		PriceRange:      in.PriceRange,
		Address:         trimmed(in.Address),
		ShowOnMap:       in.ShowOnMap,
	}
	if in.ExpirationDate != nil {
		t := in.ExpirationDate.UTC()
		p.ExpirationDate = &t
	}
	if in.RedirectURL != nil {
		v := utils.NormalizeWhatsAppURL(*in.RedirectURL)
		p.RedirectURL = &v
	}
	if in.InstagramUsername != nil {
		v := normalizeInstagram(*in.InstagramUsername)
		p.InstagramUsername = &v
	}
	if in.Features != nil {
		v := normalizeFeatures(*in.Features)
		p.Features = &v
	}
	if in.OpeningHours != nil {
		if err := validateSchedule(*in.OpeningHours); err != nil {
			return models.AdPatch{}, err
		}
		raw, err := json.Marshal(*in.OpeningHours)
		if err != nil {
			return models.AdPatch{}, fmt.Errorf("encode opening hours: %w", err)
		}
		j := datatypes.JSON(raw)
		p.OpeningHours = &j
	}
	switch {
	case in.ClearLocation:
		var none *float64
		p.Lat, p.Lng = &none, &none
	case in.Lat != nil:
		lat, lng := in.Lat, in.Lng
		p.Lat, p.Lng = &lat, &lng
	}
	return p, nil
}

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func validateSchedule(s models.WeeklySchedule) error {
	for day, ranges := range s {
		if !isWeekday(day) {
			return invalid("opening_hours", fmt.Sprintf("unknown weekday %q", day))
		}
		for _, r := range ranges {
			if !clockTime.MatchString(r.Open) || !clockTime.MatchString(r.Close) {
				return invalid("opening_hours", fmt.Sprintf("%s: times must be HH:MM", day))
			}
		}
	}
	return nil
}

func isWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func normalizeInstagram(handle string) string {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimPrefix(handle, "https://www.instagram.com/")
	handle = strings.TrimPrefix(handle, "https://instagram.com/")
	return strings.Trim(handle, "@/ ")
}

func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
