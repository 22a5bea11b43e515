package ranking

import (
	"time"

	"github.com/miramar-experience/api-go/models"
)

const DefaultHeroLimit = 5

// HeroCap bounds how many hero ads may be live at the same time.
type HeroCap struct {
	Limit int
}

// Counts reports whether ad occupies a hero slot right now.
func (HeroCap) Counts(ad *models.Ad, now time.Time) bool {
	return ad.Tier == models.TierHero && ad.IsActive && Current(ad, now)
}

// Allow reports whether one more hero fits next to current live heroes.
// A non-positive limit disables the cap.
func (c HeroCap) Allow(current int64) bool {
	if c.Limit <= 0 {
		return true
	}
	return current < int64(c.Limit)
}

// Raises reports whether turning before into after takes a new hero slot.
func (c HeroCap) Raises(before, after *models.Ad, now time.Time) bool {
	if !c.Counts(after, now) {
		return false
	}
	return before == nil || !c.Counts(before, now)
}
