package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/utils"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

var admin = &utils.Session{UserID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *recordingNotifier) Invalidate(ctx context.Context, paths ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, paths)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// failingAds fails every read and write with err.
type failingAds struct {
	repository.AdRepository
	err error
}

func (f failingAds) Find(ctx context.Context, _ ranking.Filter) ([]models.Ad, error) {
	return nil, f.err
}

func (f failingAds) FindByID(ctx context.Context, _ string) (*models.Ad, error) {
	return nil, f.err
}

// slowAds blocks until the caller gives up.
type slowAds struct {
	repository.AdRepository
}

func (slowAds) Find(ctx context.Context, _ ranking.Filter) ([]models.Ad, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func seed(t *testing.T, ads repository.AdRepository, list ...*models.Ad) {
	t.Helper()
	for _, ad := range list {
		if err := ads.Create(context.Background(), ad, ranking.HeroCap{}); err != nil {
			t.Fatalf("seed %s: %v", ad.BusinessName, err)
		}
	}
}

func listing(name string, tier models.Tier, priority int) *models.Ad {
	return &models.Ad{
		BusinessName:   name,
		ImageURL:       "https://cdn.example.com/" + name + ".jpg",
		Tier:           tier,
		Category:       models.CategoryGastronomy,
		Priority:       priority,
		IsActive:       true,
		ShowOnMap:      true,
		ExpirationDate: fixedNow.Add(24 * time.Hour),
	}
}

func names(ads []models.Ad) []string {
	out := make([]string, len(ads))
	for i, ad := range ads {
		out[i] = ad.BusinessName
	}
	return out
}

func ptr[T any](v T) *T { return &v }
