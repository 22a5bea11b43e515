package sheets

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/utils"
)

// CommercialWeight tells the chatbot how strongly to favour an ad.
func CommercialWeight(ad *models.Ad) int {
	return ad.Tier.Weight()*100 + ad.Priority
}

// KnowledgeRows projects ads, already filtered and ranked, into the rows of
// the chatbot knowledge base.
func KnowledgeRows(ads []models.Ad) []Row {
	rows := make([]Row, 0, len(ads))
	for i := range ads {
		ad := &ads[i]
		rows = append(rows, Row{
			{"id", ad.ID},
			{"domain", string(ad.Category)},
			{"sub_type", string(ad.Tier)},
			{"name", ad.BusinessName},
			{"category", ad.Category.Label()},
			{"summary", Summary(ad)},
			{"commercial_weight", CommercialWeight(ad)},
			{"description", ad.Description},
			{"address", ad.Address},
			{"lat", ad.Lat},
			{"lng", ad.Lng},
			{"maps_url", MapsURL(ad)},
			{"whatsapp_url", whatsApp(ad)},
			{"website_url", ad.WebsiteURL},
			{"instagram", ad.InstagramUsername},
			{"expires_at", expiry(ad)},
			{"detail_path", DetailPath(ad)},
			{"metadata_json", metadata(ad)},
		})
	}
	return rows
}

// Summary is a short natural-language description of the place.
func Summary(ad *models.Ad) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s).", ad.BusinessName, ad.Category.Label())
	if d := strings.TrimSpace(ad.Description); d != "" {
		b.WriteString(" " + strings.TrimSuffix(d, ".") + ".")
	}
	if ad.Address != "" {
		fmt.Fprintf(&b, " Dirección: %s.", ad.Address)
	}
	if ad.PriceRange != "" {
		fmt.Fprintf(&b, " Precio: %s.", ad.PriceRange)
	}
	if len(ad.Features) > 0 {
		fmt.Fprintf(&b, " Servicios: %s.", strings.Join(ad.Features, ", "))
	}
	return b.String()
}

// MapsURL links to the place on Google Maps, by coordinates when known and by
// address otherwise. Empty when neither is set.
func MapsURL(ad *models.Ad) string {
	var query string
	switch {
	case ad.HasLocation():
		query = strconv.FormatFloat(*ad.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*ad.Lng, 'f', -1, 64)
	case ad.Address != "":
		query = ad.Address
	default:
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

func DetailPath(ad *models.Ad) string {
	return "/places/" + ad.ID
}

func whatsApp(ad *models.Ad) string {
	if utils.IsWhatsAppURL(ad.RedirectURL) {
		return ad.RedirectURL
	}
	return utils.NormalizeWhatsAppURL(ad.Phone)
}

func expiry(ad *models.Ad) interface{} {
	if ad.IsPermanent {
		return "permanent"
	}
	return ad.ExpirationDate.UTC()
}

func metadata(ad *models.Ad) map[string]interface{} {
	meta := map[string]interface{}{
		"features":    []string(ad.Features),
		"price_range": ad.PriceRange,
		"phone":       ad.Phone,
		"priority":    ad.Priority,
	}
	if ad.Features == nil {
		meta["features"] = []string{}
	}
	if len(ad.OpeningHours) > 0 {
		meta["opening_hours"] = ad.OpeningHours
	}
	return meta
}
