package ranking

import (
	"sort"

	"github.com/miramar-experience/api-go/models"
)

// Less orders by tier weight, then priority, both descending.
func Less(a, b *models.Ad) bool {
	if wa, wb := a.Tier.Weight(), b.Tier.Weight(); wa != wb {
		return wa > wb
	}
	return a.Priority > b.Priority
}

// Rank sorts ads in place and returns them. Ties keep their input order.
func Rank(ads []models.Ad) []models.Ad {
	sort.SliceStable(ads, func(i, j int) bool {
		return Less(&ads[i], &ads[j])
	})
	return ads
}

// Partition splits a ranked list by tier, keeping order inside each pool.
func Partition(ads []models.Ad) map[models.Tier][]models.Ad {
	pools := make(map[models.Tier][]models.Ad, len(models.Tiers))
	for _, ad := range ads {
		pools[ad.Tier] = append(pools[ad.Tier], ad)
	}
	return pools
}
