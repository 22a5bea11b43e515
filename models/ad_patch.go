package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AdPatch is a partial update. Nil fields are left untouched, so two patches
// touching different columns never overwrite each other.
type AdPatch struct {
	BusinessName      *string
	Description       *string
	LongDescription   *string
	ImageURL          *string
	GalleryURLs       *[]string
	Tier              *Tier
	Category          *Category
	Priority          *int
	IsActive          *bool
	ExpirationDate    *time.Time
	IsPermanent       *bool
	RedirectURL       *string
	Phone             *string
	InstagramUsername *string
	WebsiteURL        *string
	PriceRange        *string
	Features          *[]string
	OpeningHours      *datatypes.JSON
	Lat               **float64
	Lng               **float64
	Address           *string
	ShowOnMap         *bool
}

func (p AdPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Apply writes the non-nil fields into ad.
func (p AdPatch) Apply(ad *Ad) {
	if p.BusinessName != nil {
		ad.BusinessName = *p.BusinessName
	}
	if p.Description != nil {
		ad.Description = *p.Description
	}
	if p.LongDescription != nil {
		ad.LongDescription = *p.LongDescription
	}
	if p.ImageURL != nil {
		ad.ImageURL = *p.ImageURL
	}
	if p.GalleryURLs != nil {
		ad.GalleryURLs = append(pq.StringArray{}, (*p.GalleryURLs)...)
	}
	if p.Tier != nil {
		ad.Tier = *p.Tier
	}
	if p.Category != nil {
		ad.Category = *p.Category
	}
	if p.Priority != nil {
		ad.Priority = *p.Priority
	}
	if p.IsActive != nil {
		ad.IsActive = *p.IsActive
	}
	if p.ExpirationDate != nil {
		ad.ExpirationDate = *p.ExpirationDate
	}
	if p.IsPermanent != nil {
		ad.IsPermanent = *p.IsPermanent
	}
	if p.RedirectURL != nil {
		ad.RedirectURL = *p.RedirectURL
	}
	if p.Phone != nil {
		ad.Phone = *p.Phone
	}
	if p.InstagramUsername != nil {
		ad.InstagramUsername = *p.InstagramUsername
	}
	if p.WebsiteURL != nil {
		ad.WebsiteURL = *p.WebsiteURL
	}
	if p.PriceRange != nil {
		ad.PriceRange = *p.PriceRange
	}
	if p.Features != nil {
		ad.Features = append(pq.StringArray{}, (*p.Features)...)
	}
	if p.OpeningHours != nil {
		ad.OpeningHours = *p.OpeningHours
	}
	if p.Lat != nil {
		ad.Lat = *p.Lat
	}
	if p.Lng != nil {
		ad.Lng = *p.Lng
	}
	if p.Address != nil {
		ad.Address = *p.Address
	}
	if p.ShowOnMap != nil {
		ad.ShowOnMap = *p.ShowOnMap
	}
}

// Columns maps the non-nil fields to their column names for gorm Updates.
func (p AdPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.BusinessName != nil {
		cols["business_name"] = *p.BusinessName
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.LongDescription != nil {
		cols["long_description"] = *p.LongDescription
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.GalleryURLs != nil {
		cols["gallery_urls"] = pq.StringArray(*p.GalleryURLs)
	}
	if p.Tier != nil {
		cols["tier"] = *p.Tier
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	if p.ExpirationDate != nil {
		cols["expiration_date"] = *p.ExpirationDate
	}
	if p.IsPermanent != nil {
		cols["is_permanent"] = *p.IsPermanent
	}
	if p.RedirectURL != nil {
		cols["redirect_url"] = *p.RedirectURL
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.InstagramUsername != nil {
		cols["instagram_username"] = *p.InstagramUsername
	}
	if p.WebsiteURL != nil {
		cols["website_url"] = *p.WebsiteURL
	}
	if p.PriceRange != nil {
		cols["price_range"] = *p.PriceRange
	}
	if p.Features != nil {
		cols["features"] = pq.StringArray(*p.Features)
	}
	if p.OpeningHours != nil {
		cols["opening_hours"] = *p.OpeningHours
	}
	if p.Lat != nil {
		cols["lat"] = *p.Lat
	}
	if p.Lng != nil {
		cols["lng"] = *p.Lng
	}
	if p.Address != nil {
		cols["address"] = *p.Address
	}
	if p.ShowOnMap != nil {
		cols["show_on_map"] = *p.ShowOnMap
	}
	return cols
}
