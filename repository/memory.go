package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
)

// Memory is a process-local store used for local development and tests.
// One mutex guards everything, so the hero count and the write it gates are
// atomic just like the postgres advisory lock.
type Memory struct {
	mu       sync.Mutex
	now      Clock
	ads      map[string]models.Ad
	settings map[string]models.SystemSetting
	events   []models.AnalyticsEvent
	users    map[uint]models.User
	tokens   map[string]models.RefreshToken
	seq      uint
}

func NewMemory(now Clock) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		now:      now,
		ads:      map[string]models.Ad{},
		settings: map[string]models.SystemSetting{},
		users:    map[uint]models.User{},
		tokens:   map[string]models.RefreshToken{},
	}
}

// Repositories exposes the memory store through every repository interface.
func (m *Memory) Repositories() *Repositories {
	return &Repositories{
		Ads:      memoryAds{m},
		Settings: memorySettings{m},
		Events:   memoryEvents{m},
		Users:    memoryUsers{m},
	}
}

type memoryAds struct{ m *Memory }

func (r memoryAds) snapshot() []models.Ad {
	ads := make([]models.Ad, 0, len(r.m.ads))
	for _, ad := range r.m.ads {
		ads = append(ads, ad.Clone())
	}
	sort.SliceStable(ads, func(i, j int) bool {
		if !ads[i].CreatedAt.Equal(ads[j].CreatedAt) {
			return ads[i].CreatedAt.Before(ads[j].CreatedAt)
		}
		return ads[i].ID < ads[j].ID
	})
	return ads
}

func (r memoryAds) Find(ctx context.Context, f ranking.Filter) ([]models.Ad, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	all := r.snapshot()
	now := r.m.now()
	r.m.mu.Unlock()

	ads := f.Apply(all, now)
	if f.Context.Public() {
		ranking.Rank(ads)
	} else {
		sort.SliceStable(ads, func(i, j int) bool {
			return ads[i].CreatedAt.After(ads[j].CreatedAt)
		})
	}
	if f.Limit > 0 && len(ads) > f.Limit {
		ads = ads[:f.Limit]
	}
	return ads, nil
}

func (r memoryAds) FindByID(ctx context.Context, id string) (*models.Ad, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ad, ok := r.m.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := ad.Clone()
	return &c, nil
}

func (r memoryAds) liveHeroes(now time.Time, excludeID string) int64 {
	var n int64
	for id, ad := range r.m.ads {
		ad := ad
		if id != excludeID && (ranking.HeroCap{}).Counts(&ad, now) {
			n++
		}
	}
	return n
}

func (r memoryAds) Create(ctx context.Context, ad *models.Ad, heroCap ranking.HeroCap) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := r.m.now()
	if heroCap.Raises(nil, ad, now) && !heroCap.Allow(r.liveHeroes(now, "")) {
		return ErrHeroCapReached
	}
	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}
	if _, exists := r.m.ads[ad.ID]; exists {
		return ErrDuplicate
	}
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	r.m.ads[ad.ID] = ad.Clone()
	return nil
}

func (r memoryAds) Update(ctx context.Context, id string, patch models.AdPatch, heroCap ranking.HeroCap) (*models.Ad, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	current, ok := r.m.ads[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := r.m.now()
	candidate := current.Clone()
	patch.Apply(&candidate)
	if heroCap.Raises(&current, &candidate, now) && !heroCap.Allow(r.liveHeroes(now, id)) {
		return nil, ErrHeroCapReached
	}
	if !patch.Empty() {
		candidate.UpdatedAt = now
	}
	r.m.ads[id] = candidate
	out := candidate.Clone()
	return &out, nil
}

func (r memoryAds) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.ads[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.ads, id)
	return nil
}

func (r memoryAds) CountLiveHeroes(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.liveHeroes(r.m.now(), ""), nil
}

func (r memoryAds) Stats(ctx context.Context) (AdStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := r.m.now()
	var s AdStats
	for _, ad := range r.m.ads {
		ad := ad
		s.Total++
		if ad.IsActive {
			s.Active++
		}
		if ad.Expired(now) && !ad.IsPermanent {
			s.Expired++
		}
		if ad.ShowOnMap && ad.HasLocation() {
			s.MapListings++
		}
	}
	s.LiveHeroes = r.liveHeroes(now, "")
	return s, nil
}

type memorySettings struct{ m *Memory }

func (r memorySettings) Get(ctx context.Context, key string) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.settings[key].Value, nil
}

func (r memorySettings) Set(ctx context.Context, setting models.SystemSetting) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	setting.UpdatedAt = r.m.now()
	r.m.settings[setting.Key] = setting
	return nil
}

func (r memorySettings) List(ctx context.Context) ([]models.SystemSetting, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.SystemSetting, 0, len(r.m.settings))
	for _, s := range r.m.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type memoryEvents struct{ m *Memory }

func (r memoryEvents) Record(ctx context.Context, event *models.AnalyticsEvent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seq++
	event.ID = r.m.seq
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.m.now()
	}
	r.m.events = append(r.m.events, *event)
	return nil
}

func (r memoryEvents) Summary(ctx context.Context, since time.Time) ([]models.EventCount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	type key struct {
		ad string
		ev models.EventType
	}
	totals := map[key]int64{}
	for _, e := range r.m.events {
		if !e.CreatedAt.Before(since) {
			totals[key{e.AdID, e.EventType}]++
		}
	}
	out := make([]models.EventCount, 0, len(totals))
	for k, n := range totals {
		out = append(out, models.EventCount{AdID: k.ad, EventType: k.ev, Total: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].AdID != out[j].AdID {
			return out[i].AdID < out[j].AdID
		}
		return out[i].EventType < out[j].EventType
	})
	return out, nil
}

type memoryUsers struct{ m *Memory }

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	r.m.seq++
	user.ID = r.m.seq
	user.CreatedAt = r.m.now()
	user.UpdatedAt = user.CreatedAt
	r.m.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if token.ID == 0 {
		r.m.seq++
		token.ID = r.m.seq
		token.CreatedAt = r.m.now()
	}
	for k, t := range r.m.tokens {
		if t.ID == token.ID {
			delete(r.m.tokens, k)
		}
	}
	r.m.tokens[token.Token] = *token
	return nil
}

func (r memoryUsers) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r memoryUsers) DeleteRefreshToken(ctx context.Context, token string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tokens[token]; !ok {
		return false, nil
	}
	delete(r.m.tokens, token)
	return true, nil
}
