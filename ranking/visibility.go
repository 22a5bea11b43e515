// Package ranking decides which ads are shown, in what order and where.
package ranking

import (
	"strings"
	"time"

	"github.com/miramar-experience/api-go/models"
)

// Context identifies who is reading and therefore which ads qualify.
type Context int

const (
	ContextHome Context = iota
	ContextDirectory
	ContextMap
	ContextAdmin
)

func (c Context) Public() bool { return c != ContextAdmin }

func (c Context) String() string {
	switch c {
	case ContextHome:
		return "home"
	case ContextDirectory:
		return "directory"
	case ContextMap:
		return "map"
	case ContextAdmin:
		return "admin"
	}
	return "unknown"
}

// Filter narrows a read beyond the context rules.
type Filter struct {
	Context  Context
	Tiers    []models.Tier
	Category models.Category
	Search   string
	Limit    int
}

// Current reports whether the ad is within its paid period. Permanent ads
// never expire.
func Current(ad *models.Ad, now time.Time) bool {
	return ad.IsPermanent || ad.ExpirationDate.After(now)
}

// Visible applies the context rules for a single ad.
func Visible(ad *models.Ad, ctx Context, now time.Time) bool {
	if ctx == ContextAdmin {
		return true
	}
	if !ad.IsActive || !Current(ad, now) {
		return false
	}
	if ctx == ContextMap {
		return ad.ShowOnMap && ad.HasLocation()
	}
	return true
}

// Matches applies Visible plus the tier, category and search narrowing.
func (f Filter) Matches(ad *models.Ad, now time.Time) bool {
	if !Visible(ad, f.Context, now) {
		return false
	}
	if len(f.Tiers) > 0 && !containsTier(f.Tiers, ad.Tier) {
		return false
	}
	if f.Category != "" && ad.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(ad.BusinessName), q) &&
			!strings.Contains(strings.ToLower(ad.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the ads matching f in their original order. Limit is left
// to the caller, which applies it after ranking.
func (f Filter) Apply(ads []models.Ad, now time.Time) []models.Ad {
	out := make([]models.Ad, 0, len(ads))
	for i := range ads {
		if f.Matches(&ads[i], now) {
			out = append(out, ads[i])
		}
	}
	return out
}

func containsTier(tiers []models.Tier, t models.Tier) bool {
	for _, x := range tiers {
		if x == t {
			return true
		}
	}
	return false
}
