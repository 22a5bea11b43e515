package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tier decides where an ad is placed and how much visual weight it gets.
type Tier string

const (
	TierHero     Tier = "hero"
	TierFeatured Tier = "featured"
	TierStandard Tier = "standard"
)

// Tiers lists every tier from heaviest to lightest.
var Tiers = []Tier{TierHero, TierFeatured, TierStandard}

// Weight is the primary ranking key. Unknown tiers weigh 0 and sort last.
func (t Tier) Weight() int {
	switch t {
	case TierHero:
		return 3
	case TierFeatured:
		return 2
	case TierStandard:
		return 1
	}
	return 0
}

// DefaultPriority is the priority suggested for a new ad of this tier.
func (t Tier) DefaultPriority() int {
	switch t {
	case TierHero:
		return 90
	case TierFeatured:
		return 50
	case TierStandard:
		return 10
	}
	return 0
}

func (t Tier) Valid() bool { return t.Weight() > 0 }

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

type Category string

const (
	CategoryGastronomy Category = "gastronomy"
	CategoryLodging    Category = "lodging"
	CategoryShopping   Category = "shopping"
	CategoryAdventure  Category = "adventure"
	CategoryNightlife  Category = "nightlife"
)

var Categories = []Category{
	CategoryGastronomy,
	CategoryLodging,
	CategoryShopping,
	CategoryAdventure,
	CategoryNightlife,
}

func (c Category) Label() string {
	switch c {
	case CategoryGastronomy:
		return "Gastronomía"
	case CategoryLodging:
		return "Hotelería"
	case CategoryShopping:
		return "Comercios"
	case CategoryAdventure:
		return "Aventura"
	case CategoryNightlife:
		return "Vida Nocturna"
	}
	return string(c)
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Ad struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;<-:create"`
	UpdatedAt time.Time `json:"updated_at"`

	BusinessName    string         `json:"business_name" gorm:"not null;type:varchar(100)"`
	Description     string         `json:"description" gorm:"type:varchar(140)"`
	LongDescription string         `json:"long_description" gorm:"type:text"`
	ImageURL        string         `json:"image_url" gorm:"not null"`
	GalleryURLs     pq.StringArray `json:"gallery_urls" gorm:"type:text[]"`

	Tier     Tier     `json:"tier" gorm:"not null;type:varchar(16);index"`
	Category Category `json:"category" gorm:"not null;type:varchar(32);index"`
	Priority int      `json:"priority" gorm:"not null;default:0"`

	IsActive       bool      `json:"is_active" gorm:"not null;index"`
	ExpirationDate time.Time `json:"expiration_date" gorm:"not null;index"`
	IsPermanent    bool      `json:"is_permanent" gorm:"not null;default:false"`

	RedirectURL       string         `json:"redirect_url"`
	Phone             string         `json:"phone"`
	InstagramUsername string         `json:"instagram_username"`
	WebsiteURL        string         `json:"website_url"`
	PriceRange        string         `json:"price_range" gorm:"type:varchar(8)"`
	Features          pq.StringArray `json:"features" gorm:"type:text[]"` // ["wifi", "parking", "pet_friendly"]
	OpeningHours      datatypes.JSON `json:"opening_hours"`

	Lat       *float64 `json:"lat" gorm:"type:decimal(10,8)"`
	Lng       *float64 `json:"lng" gorm:"type:decimal(11,8)"`
	Address   string   `json:"address"`
	ShowOnMap bool     `json:"show_on_map" gorm:"not null"`
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// Expired reports whether the expiration date has passed, ignoring IsPermanent.
func (a *Ad) Expired(now time.Time) bool {
	return !a.ExpirationDate.After(now)
}

func (a *Ad) HasLocation() bool {
	return a.Lat != nil && a.Lng != nil
}

// Schedule decodes OpeningHours. An empty column yields a nil schedule.
func (a *Ad) Schedule() (WeeklySchedule, error) {
	if len(a.OpeningHours) == 0 || string(a.OpeningHours) == "null" {
		return nil, nil
	}
	var s WeeklySchedule
	if err := json.Unmarshal(a.OpeningHours, &s); err != nil {
		return nil, fmt.Errorf("decode opening hours: %w", err)
	}
	return s, nil
}

// Clone returns a deep copy so callers can mutate slices freely.
func (a Ad) Clone() Ad {
	c := a
	if a.GalleryURLs != nil {
		c.GalleryURLs = append(pq.StringArray{}, a.GalleryURLs...)
	}
	if a.Features != nil {
		c.Features = append(pq.StringArray{}, a.Features...)
	}
	if a.OpeningHours != nil {
		c.OpeningHours = append(datatypes.JSON{}, a.OpeningHours...)
	}
	if a.Lat != nil {
		lat := *a.Lat
		c.Lat = &lat
	}
	if a.Lng != nil {
		lng := *a.Lng
		c.Lng = &lng
	}
	return c
}

// TimeRange is one opening window, "HH:MM" local time.
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklySchedule maps lower-case English weekday names to opening windows.
type WeeklySchedule map[string][]TimeRange

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
