package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingEvents struct {
	repository.EventRepository
}

func (failingEvents) Record(ctx context.Context, _ *models.AnalyticsEvent) error {
	return errors.New("insert failed")
}

func TestTrackAndSummarise(t *testing.T) {
	defer goleak.VerifyNone(t)

	repos := repository.NewMemory(clock).Repositories()
	hotel := listing("Hotel", models.TierFeatured, 10)
	bar := listing("Bar", models.TierStandard, 10)
	seed(t, repos.Ads, hotel, bar)
	svc := NewAnalyticsService(repos.Events, repos.Ads, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	for _, ev := range []models.EventType{models.EventViewDetail, models.EventClickWhatsApp, models.EventClickWhatsApp} {
		require.NoError(t, svc.Track(ctx, hotel.ID, ev))
	}
	require.NoError(t, svc.Track(ctx, bar.ID, models.EventClickMap))
	// A finished request must not cancel pending writes.
	cancel()
	svc.Wait()

	summary, err := svc.Summary(context.Background(), admin, 7)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Hotel", summary[0].BusinessName)
	assert.EqualValues(t, 3, summary[0].Total)
	assert.EqualValues(t, 2, summary[0].Counts[models.EventClickWhatsApp])
	assert.EqualValues(t, 1, summary[1].Total)

	_, err = svc.Summary(context.Background(), nil, 7)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTrackSwallowsStoreFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewAnalyticsService(failingEvents{}, nil, time.Now, zap.New(core))

	require.NoError(t, svc.Track(context.Background(), "ad-1", models.EventClickWebsite))
	svc.Wait()
	assert.Equal(t, 1, logs.FilterMessage("track event failed").Len())

	var verr *ValidationError
	assert.ErrorAs(t, svc.Track(context.Background(), "ad-1", "click_phone"), &verr)
	assert.ErrorAs(t, svc.Track(context.Background(), "", models.EventViewDetail), &verr)
}
