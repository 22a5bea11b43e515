package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// heroLockKey serialises every write that may take a hero slot.
const heroLockKey int64 = 0x4845524f // "HERO"

const tierOrder = "CASE tier WHEN 'hero' THEN 3 WHEN 'featured' THEN 2 WHEN 'standard' THEN 1 ELSE 0 END DESC"

type AdRepo struct {
	db  *gorm.DB
	now Clock
}

func NewAdRepo(db *gorm.DB, now Clock) *AdRepo {
	return &AdRepo{db: db, now: now}
}

// visibleIn mirrors ranking.Visible in SQL.
func visibleIn(ctx ranking.Context, r *AdRepo) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !ctx.Public() {
			return db
		}
		db = db.Where("is_active = ?", true).
			Where("(expiration_date > ? OR is_permanent = ?)", r.now(), true)
		if ctx == ranking.ContextMap {
			db = db.Where("show_on_map = ?", true).
				Where("lat IS NOT NULL").
				Where("lng IS NOT NULL")
		}
		return db
	}
}

func liveHeroes(r *AdRepo) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tier = ?", models.TierHero).
			Where("is_active = ?", true).
			Where("(expiration_date > ? OR is_permanent = ?)", r.now(), true)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *AdRepo) Find(ctx context.Context, f ranking.Filter) ([]models.Ad, error) {
	q := r.db.WithContext(ctx).Model(&models.Ad{}).Scopes(visibleIn(f.Context, r))

	if len(f.Tiers) > 0 {
		tiers := make([]string, len(f.Tiers))
		for i, t := range f.Tiers {
			tiers[i] = string(t)
		}
		q = q.Where("tier IN ?", tiers)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q = q.Where("(business_name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	if f.Context.Public() {
		q = q.Order(tierOrder).Order("priority DESC").Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var ads []models.Ad
	if err := q.Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("find ads: %w", err)
	}
	if f.Context.Public() {
		ranking.Rank(ads)
	}
	return ads, nil
}

func (r *AdRepo) FindByID(ctx context.Context, id string) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ad %s: %w", id, err)
	}
	return &ad, nil
}

// reserveHeroSlot takes the advisory lock and checks the live hero count,
// excluding the ad being updated.
func (r *AdRepo) reserveHeroSlot(tx *gorm.DB, heroCap ranking.HeroCap, excludeID string) error {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", heroLockKey).Error; err != nil {
		return fmt.Errorf("lock hero slots: %w", err)
	}
	q := tx.Model(&models.Ad{}).Scopes(liveHeroes(r))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("count hero ads: %w", err)
	}
	if !heroCap.Allow(count) {
		return ErrHeroCapReached
	}
	return nil
}

func (r *AdRepo) Create(ctx context.Context, ad *models.Ad, heroCap ranking.HeroCap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.insert(tx, ad, heroCap)
	})
}

// insert writes every column as given, so the cap check sees the row exactly
// as it lands.
func (r *AdRepo) insert(tx *gorm.DB, ad *models.Ad, heroCap ranking.HeroCap) error {
	if heroCap.Raises(nil, ad, r.now()) {
		if err := r.reserveHeroSlot(tx, heroCap, ""); err != nil {
			return err
		}
	}
	if err := tx.Create(ad).Error; err != nil {
		return fmt.Errorf("create ad: %w", err)
	}
	return nil
}

func (r *AdRepo) Update(ctx context.Context, id string, patch models.AdPatch, heroCap ranking.HeroCap) (*models.Ad, error) {
	var updated models.Ad
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Ad
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load ad %s: %w", id, err)
		}

		candidate := current.Clone()
		patch.Apply(&candidate)
		if heroCap.Raises(&current, &candidate, r.now()) {
			if err := r.reserveHeroSlot(tx, heroCap, id); err != nil {
				return err
			}
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&models.Ad{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return fmt.Errorf("update ad %s: %w", id, err)
			}
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *AdRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ad{})
	if res.Error != nil {
		return fmt.Errorf("delete ad %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdRepo) CountLiveHeroes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Ad{}).Scopes(liveHeroes(r)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count hero ads: %w", err)
	}
	return count, nil
}

func (r *AdRepo) Stats(ctx context.Context) (AdStats, error) {
	var stats AdStats
	now := r.now()
	err := r.db.WithContext(ctx).Model(&models.Ad{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE expiration_date <= ? AND NOT is_permanent) AS expired,
			COUNT(*) FILTER (WHERE tier = ? AND is_active AND (expiration_date > ? OR is_permanent)) AS live_heroes,
			COUNT(*) FILTER (WHERE show_on_map AND lat IS NOT NULL AND lng IS NOT NULL) AS map_listings`,
			now, models.TierHero, now).
		Scan(&stats).Error
	if err != nil {
		return AdStats{}, fmt.Errorf("ad stats: %w", err)
	}
	return stats, nil
}
