package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newAd(name string, tier models.Tier) *models.Ad {
	return &models.Ad{
		BusinessName:   name,
		ImageURL:       "https://cdn.example.com/" + name + ".jpg",
		Tier:           tier,
		Category:       models.CategoryShopping,
		Priority:       tier.DefaultPriority(),
		IsActive:       true,
		ExpirationDate: fixedNow.Add(72 * time.Hour),
		ShowOnMap:      true,
	}
}

func TestMemoryHeroCapIsAtomicUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()
	heroCap := ranking.HeroCap{Limit: 5}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repos.Ads.Create(ctx, newAd(fmt.Sprintf("hero-%d", i), models.TierHero), heroCap)
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrHeroCapReached):
			rejected++
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, rejected)

	count, err := repos.Ads.CountLiveHeroes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}

func TestMemoryUpdateRechecksHeroCap(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()
	heroCap := ranking.HeroCap{Limit: 2}

	for i := 0; i < 2; i++ {
		require.NoError(t, repos.Ads.Create(ctx, newAd(fmt.Sprintf("hero-%d", i), models.TierHero), heroCap))
	}
	featured := newAd("featured", models.TierFeatured)
	require.NoError(t, repos.Ads.Create(ctx, featured, heroCap))

	hero := models.TierHero
	_, err := repos.Ads.Update(ctx, featured.ID, models.AdPatch{Tier: &hero}, heroCap)
	require.ErrorIs(t, err, ErrHeroCapReached)

	stored, err := repos.Ads.FindByID(ctx, featured.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFeatured, stored.Tier)

	// A live hero may keep editing itself without tripping the cap.
	name := "renamed"
	heroes, err := repos.Ads.Find(ctx, ranking.Filter{Context: ranking.ContextAdmin, Tiers: []models.Tier{models.TierHero}})
	require.NoError(t, err)
	_, err = repos.Ads.Update(ctx, heroes[0].ID, models.AdPatch{BusinessName: &name}, heroCap)
	require.NoError(t, err)
}

func TestMemoryReactivationRechecksHeroCap(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()
	heroCap := ranking.HeroCap{Limit: 1}

	paused := newAd("paused", models.TierHero)
	paused.IsActive = false
	require.NoError(t, repos.Ads.Create(ctx, paused, heroCap))
	require.NoError(t, repos.Ads.Create(ctx, newAd("live", models.TierHero), heroCap))

	active := true
	_, err := repos.Ads.Update(ctx, paused.ID, models.AdPatch{IsActive: &active}, heroCap)
	assert.ErrorIs(t, err, ErrHeroCapReached)

	// Expired heroes do not hold a slot.
	expired := newAd("expired", models.TierHero)
	expired.ExpirationDate = fixedNow.Add(-time.Hour)
	require.NoError(t, repos.Ads.Create(ctx, expired, heroCap))
}

func TestMemoryFindRanksPublicAndSortsAdminByCreation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(clock)
	repos := m.Repositories()

	std := newAd("std", models.TierStandard)
	std.CreatedAt = fixedNow.Add(-3 * time.Hour)
	feat := newAd("feat", models.TierFeatured)
	feat.CreatedAt = fixedNow.Add(-2 * time.Hour)
	old := newAd("old", models.TierHero)
	old.CreatedAt = fixedNow.Add(-time.Hour)
	old.ExpirationDate = fixedNow.Add(-time.Minute)

	for _, ad := range []*models.Ad{std, feat, old} {
		require.NoError(t, repos.Ads.Create(ctx, ad, ranking.HeroCap{}))
	}

	public, err := repos.Ads.Find(ctx, ranking.Filter{Context: ranking.ContextHome})
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "feat", public[0].BusinessName)
	assert.Equal(t, "std", public[1].BusinessName)

	admin, err := repos.Ads.Find(ctx, ranking.Filter{Context: ranking.ContextAdmin})
	require.NoError(t, err)
	require.Len(t, admin, 3)
	assert.Equal(t, "old", admin[0].BusinessName)

	limited, err := repos.Ads.Find(ctx, ranking.Filter{Context: ranking.ContextAdmin, Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, admin[0].ID, limited[0].ID, "limit cuts the ordered list")
}

func TestMemoryStats(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()

	lat, lng := -38.27, -57.84
	mapped := newAd("mapped", models.TierHero)
	mapped.Lat, mapped.Lng = &lat, &lng
	expired := newAd("expired", models.TierStandard)
	expired.ExpirationDate = fixedNow.Add(-time.Hour)
	permanent := newAd("permanent", models.TierStandard)
	permanent.ExpirationDate = fixedNow.Add(-time.Hour)
	permanent.IsPermanent = true
	paused := newAd("paused", models.TierFeatured)
	paused.IsActive = false

	for _, ad := range []*models.Ad{mapped, expired, permanent, paused} {
		require.NoError(t, repos.Ads.Create(ctx, ad, ranking.HeroCap{}))
	}

	stats, err := repos.Ads.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdStats{Total: 4, Active: 3, Expired: 1, LiveHeroes: 1, MapListings: 1}, stats)
}

func TestMemoryDeleteIsHard(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()
	ad := newAd("gone", models.TierStandard)
	require.NoError(t, repos.Ads.Create(ctx, ad, ranking.HeroCap{}))

	require.NoError(t, repos.Ads.Delete(ctx, ad.ID))
	_, err := repos.Ads.FindByID(ctx, ad.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repos.Ads.Delete(ctx, ad.ID), ErrNotFound)
}

func TestMemoryEventSummary(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()

	for _, ev := range []models.EventType{models.EventClickWhatsApp, models.EventClickWhatsApp, models.EventViewDetail} {
		require.NoError(t, repos.Events.Record(ctx, &models.AnalyticsEvent{AdID: "a", EventType: ev}))
	}
	require.NoError(t, repos.Events.Record(ctx, &models.AnalyticsEvent{
		AdID: "b", EventType: models.EventClickMap, CreatedAt: fixedNow.Add(-48 * time.Hour),
	}))

	counts, err := repos.Events.Summary(ctx, fixedNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []models.EventCount{
		{AdID: "a", EventType: models.EventClickWhatsApp, Total: 2},
		{AdID: "a", EventType: models.EventViewDetail, Total: 1},
	}, counts)
}

func TestMemorySettingsAndTokens(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory(clock).Repositories()

	v, err := repos.Settings.Get(ctx, models.SettingGoogleSheetID)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, repos.Settings.Set(ctx, models.SystemSetting{Key: models.SettingGoogleSheetID, Value: "sheet-1"}))
	require.NoError(t, repos.Settings.Set(ctx, models.SystemSetting{Key: models.SettingGoogleSheetID, Value: "sheet-2"}))
	v, err = repos.Settings.Get(ctx, models.SettingGoogleSheetID)
	require.NoError(t, err)
	assert.Equal(t, "sheet-2", v)

	user := &models.User{Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, repos.Users.Create(ctx, user))
	assert.ErrorIs(t, repos.Users.Create(ctx, &models.User{Email: "ADMIN@example.com"}), ErrDuplicate)

	rt := &models.RefreshToken{UserID: user.ID, Token: "t1", ExpirationDate: fixedNow.Add(time.Hour)}
	require.NoError(t, repos.Users.SaveRefreshToken(ctx, rt))
	rt.Token = "t2"
	require.NoError(t, repos.Users.SaveRefreshToken(ctx, rt))

	_, err = repos.Users.FindRefreshToken(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	found, err := repos.Users.FindRefreshToken(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	deleted, err := repos.Users.DeleteRefreshToken(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, deleted)
}
