package ranking

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ad(id string, tier models.Tier, priority int) models.Ad {
	return models.Ad{
		ID:             id,
		BusinessName:   "Place " + id,
		Tier:           tier,
		Category:       models.CategoryGastronomy,
		Priority:       priority,
		IsActive:       true,
		ShowOnMap:      true,
		ExpirationDate: now.Add(24 * time.Hour),
	}
}

func ids(ads []models.Ad) []string {
	out := make([]string, len(ads))
	for i, a := range ads {
		out[i] = a.ID
	}
	return out
}

func TestRankOrdersByTierThenPriority(t *testing.T) {
	ads := []models.Ad{
		ad("s1", models.TierStandard, 99),
		ad("f1", models.TierFeatured, 10),
		ad("h1", models.TierHero, 1),
		ad("f2", models.TierFeatured, 80),
		ad("h2", models.TierHero, 95),
	}

	assert.Equal(t, []string{"h2", "h1", "f2", "f1", "s1"}, ids(Rank(ads)))
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	ads := []models.Ad{
		ad("a", models.TierStandard, 10),
		ad("b", models.TierStandard, 10),
		ad("c", models.TierStandard, 10),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Rank(ads)))
}

func TestRankAdjacentPairsAreOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		ads := make([]models.Ad, n)
		for i := range ads {
			ads[i] = ad(fmt.Sprint(i), models.Tiers[rng.Intn(len(models.Tiers))], rng.Intn(101))
		}

		ranked := Rank(ads)
		for i := 1; i < len(ranked); i++ {
			a, b := ranked[i-1], ranked[i]
			ok := a.Tier.Weight() > b.Tier.Weight() ||
				(a.Tier.Weight() == b.Tier.Weight() && a.Priority >= b.Priority)
			require.Truef(t, ok, "round %d: %s(%s,%d) before %s(%s,%d)",
				round, a.ID, a.Tier, a.Priority, b.ID, b.Tier, b.Priority)
		}
	}
}

func TestVisibilityByContext(t *testing.T) {
	lat, lng := -38.27, -57.84

	live := ad("live", models.TierStandard, 0)
	live.Lat, live.Lng = &lat, &lng

	expired := live.Clone()
	expired.ID = "expired"
	expired.ExpirationDate = now.Add(-time.Hour)

	permanent := expired.Clone()
	permanent.ID = "permanent"
	permanent.IsPermanent = true

	paused := live.Clone()
	paused.ID = "paused"
	paused.IsActive = false

	offMap := live.Clone()
	offMap.ID = "off-map"
	offMap.ShowOnMap = false

	noCoords := ad("no-coords", models.TierStandard, 0)

	all := []models.Ad{live, expired, permanent, paused, offMap, noCoords}

	tests := []struct {
		ctx  Context
		want []string
	}{
		{ContextHome, []string{"live", "permanent", "off-map", "no-coords"}},
		{ContextDirectory, []string{"live", "permanent", "off-map", "no-coords"}},
		{ContextMap, []string{"live", "permanent"}},
		{ContextAdmin, []string{"live", "expired", "permanent", "paused", "off-map", "no-coords"}},
	}
	for _, tt := range tests {
		t.Run(tt.ctx.String(), func(t *testing.T) {
			got := Filter{Context: tt.ctx}.Apply(all, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestExpirationBoundaryIsExclusive(t *testing.T) {
	a := ad("edge", models.TierStandard, 0)
	a.ExpirationDate = now

	assert.False(t, Visible(&a, ContextHome, now))
	assert.True(t, Visible(&a, ContextAdmin, now))
}

func TestDirectoryFilterCategoryAndSearch(t *testing.T) {
	pizza := ad("pizza", models.TierStandard, 0)
	pizza.BusinessName = "La Pizzería"
	pizza.Description = "Horno a leña"

	hotel := ad("hotel", models.TierFeatured, 0)
	hotel.Category = models.CategoryLodging
	hotel.BusinessName = "Hotel del Mar"
	hotel.Description = "Vista a la PIZZA gigante"

	all := []models.Ad{pizza, hotel}

	got := Filter{Context: ContextDirectory, Search: "pizz"}.Apply(all, now)
	assert.Equal(t, []string{"pizza", "hotel"}, ids(got))

	got = Filter{Context: ContextDirectory, Search: "  PIZZ ", Category: models.CategoryLodging}.Apply(all, now)
	assert.Equal(t, []string{"hotel"}, ids(got))

	got = Filter{Context: ContextDirectory, Tiers: []models.Tier{models.TierFeatured}}.Apply(all, now)
	assert.Equal(t, []string{"hotel"}, ids(got))
}

func TestApplyLeavesLimitToCaller(t *testing.T) {
	std := ad("std", models.TierStandard, 0)
	hero := ad("hero", models.TierHero, 0)

	got := Filter{Context: ContextDirectory, Limit: 1}.Apply([]models.Ad{std, hero}, now)
	require.Equal(t, []string{"std", "hero"}, ids(got))
	assert.Equal(t, []string{"hero"}, ids(Rank(got)[:1]))
}

func TestHeroCap(t *testing.T) {
	hc := HeroCap{Limit: DefaultHeroLimit}

	assert.True(t, hc.Allow(4))
	assert.False(t, hc.Allow(5))
	assert.True(t, HeroCap{}.Allow(100))

	hero := ad("h", models.TierHero, 90)
	featured := ad("f", models.TierFeatured, 50)
	assert.True(t, hc.Counts(&hero, now))
	assert.False(t, hc.Counts(&featured, now))

	assert.True(t, hc.Raises(nil, &hero, now))
	assert.True(t, hc.Raises(&featured, &hero, now))
	assert.False(t, hc.Raises(&hero, &hero, now))

	paused := hero.Clone()
	paused.IsActive = false
	assert.True(t, hc.Raises(&paused, &hero, now))
	assert.False(t, hc.Raises(&hero, &paused, now))
}
