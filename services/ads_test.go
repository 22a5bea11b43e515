package services

import (
	"context"
	"testing"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdService(t *testing.T, limit int) (*AdService, repository.AdRepository, *recordingNotifier) {
	t.Helper()
	repos := repository.NewMemory(clock).Repositories()
	n := &recordingNotifier{}
	return NewAdService(repos.Ads, ranking.HeroCap{Limit: limit}, n, clock, nil), repos.Ads, n
}

func validInput(name string, tier models.Tier) AdInput {
	return AdInput{
		BusinessName:   name,
		ImageURL:       "https://cdn.example.com/" + name + ".jpg",
		Tier:           tier,
		Category:       models.CategoryLodging,
		ExpirationDate: ptr(fixedNow.Add(7 * 24 * time.Hour)),
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _, n := newAdService(t, 5)
	for _, s := range []*utils.Session{nil, utils.CronSession(), {UserID: 2, Role: "viewer"}} {
		_, err := svc.Create(context.Background(), s, validInput("Hotel", models.TierStandard))
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Zero(t, n.count())
}

func TestCreateAppliesDefaultsAndNormalisation(t *testing.T) {
	svc, ads, n := newAdService(t, 5)
	in := validInput("Hotel Costa", models.TierFeatured)
	in.RedirectURL = "(223) 555-1234"
	in.InstagramUsername = "@hotelcosta"
	in.Features = []string{"WiFi", " wifi ", "Parking"}
	in.OpeningHours = models.WeeklySchedule{"monday": {{Open: "09:00", Close: "18:00"}}}

	ad, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, 50, ad.Priority)
	assert.True(t, ad.IsActive)
	assert.True(t, ad.ShowOnMap)
	assert.Equal(t, "https://wa.me/5492235551234", ad.RedirectURL)
	assert.Equal(t, "hotelcosta", ad.InstagramUsername)
	assert.Equal(t, []string{"wifi", "parking"}, []string(ad.Features))

	stored, err := ads.FindByID(context.Background(), ad.ID)
	require.NoError(t, err)
	schedule, err := stored.Schedule()
	require.NoError(t, err)
	assert.Equal(t, "18:00", schedule["monday"][0].Close)
	assert.Equal(t, [][]string{AdChangePaths}, n.calls)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newAdService(t, 5)
	cases := map[string]struct {
		mutate func(*AdInput)
		field  string
	}{
		"missing name":     {func(in *AdInput) { in.BusinessName = "" }, "business_name"},
		"long description": {func(in *AdInput) { in.Description = string(make([]byte, 141)) }, "description"},
		"bad image url":    {func(in *AdInput) { in.ImageURL = "not a url" }, "image_url"},
		"unknown tier":     {func(in *AdInput) { in.Tier = "platinum" }, "tier"},
		"unknown category": {func(in *AdInput) { in.Category = "casino" }, "category"},
		"priority":         {func(in *AdInput) { in.Priority = ptr(101) }, "priority"},
		"no expiration":    {func(in *AdInput) { in.ExpirationDate = nil }, "expiration_date"},
		"past expiration":  {func(in *AdInput) { in.ExpirationDate = ptr(fixedNow.AddDate(0, 0, -2)) }, "expiration_date"},
		"expired today":    {func(in *AdInput) { in.ExpirationDate = ptr(fixedNow.Add(-time.Hour)) }, "expiration_date"},
		"expiring now":     {func(in *AdInput) { in.ExpirationDate = ptr(fixedNow) }, "expiration_date"},
		"half location":    {func(in *AdInput) { in.Lat = ptr(-38.2) }, "lat"},
		"bad hours": {func(in *AdInput) {
			in.OpeningHours = models.WeeklySchedule{"funday": {{Open: "9", Close: "18"}}}
		}, "opening_hours"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput("Hotel", models.TierStandard)
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), admin, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestPermanentAdNeedsNoExpiration(t *testing.T) {
	svc, _, _ := newAdService(t, 5)
	in := validInput("Faro", models.TierStandard)
	in.ExpirationDate = nil
	in.IsPermanent = true

	ad, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.True(t, ranking.Visible(ad, ranking.ContextHome, fixedNow.AddDate(5, 0, 0)))
}

func TestHeroCapacity(t *testing.T) {
	svc, _, n := newAdService(t, 5)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), admin, validInput("hero", models.TierHero))
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), admin, validInput("sixth", models.TierHero))
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5, capErr.Limit)
	assert.ErrorIs(t, err, repository.ErrHeroCapReached)
	assert.Contains(t, err.Error(), "featured")

	// Featured is not capped.
	_, err = svc.Create(context.Background(), admin, validInput("featured", models.TierFeatured))
	require.NoError(t, err)
	assert.Equal(t, 6, n.count())
}

func TestUpdatePromotionAndReactivationAreCapped(t *testing.T) {
	svc, _, _ := newAdService(t, 1)
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, validInput("hero", models.TierHero))
	require.NoError(t, err)
	std, err := svc.Create(ctx, admin, validInput("std", models.TierStandard))
	require.NoError(t, err)

	_, err = svc.Update(ctx, admin, std.ID, AdUpdate{Tier: ptr(models.TierHero)})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)

	in := validInput("paused", models.TierHero)
	in.IsActive = ptr(false)
	paused, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, admin, paused.ID, true)
	require.ErrorAs(t, err, &capErr)
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _, n := newAdService(t, 5)
	ctx := context.Background()
	in := validInput("Parador", models.TierStandard)
	in.Lat, in.Lng = ptr(-38.27), ptr(-57.84)
	ad, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, ad.ID, AdUpdate{Description: ptr("  Frente al mar  "), RedirectURL: ptr("wa.me/5492235551234")})
	require.NoError(t, err)
	assert.Equal(t, "Frente al mar", updated.Description)
	assert.Equal(t, "https://wa.me/5492235551234", updated.RedirectURL)
	assert.Equal(t, "Parador", updated.BusinessName)
	require.True(t, updated.HasLocation())

	cleared, err := svc.Update(ctx, admin, ad.ID, AdUpdate{ClearLocation: true})
	require.NoError(t, err)
	assert.False(t, cleared.HasLocation())

	_, err = svc.Update(ctx, admin, ad.ID, AdUpdate{ClearLocation: true, Lat: ptr(1.0), Lng: ptr(1.0)})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, admin, "missing", AdUpdate{Description: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, n.count())
}

func TestDelete(t *testing.T) {
	svc, ads, n := newAdService(t, 5)
	ctx := context.Background()
	ad, err := svc.Create(ctx, admin, validInput("gone", models.TierStandard))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, ad.ID))
	_, err = ads.FindByID(ctx, ad.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, ad.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, nil, ad.ID), ErrUnauthorized)
	assert.Equal(t, 2, n.count())
}

func TestListFiltersForAdmin(t *testing.T) {
	svc, ads, _ := newAdService(t, 5)
	expired := listing("expired", models.TierHero, 90)
	expired.ExpirationDate = fixedNow.Add(-time.Hour)
	seed(t, ads, listing("a", models.TierStandard, 10), expired)

	all, err := svc.List(context.Background(), admin, AdListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	heroes, err := svc.List(context.Background(), admin, AdListQuery{Tier: models.TierHero})
	require.NoError(t, err)
	assert.Equal(t, []string{"expired"}, names(heroes))

	_, err = svc.List(context.Background(), nil, AdListQuery{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
