package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/miramar-experience/api-go/config"
	"github.com/miramar-experience/api-go/controllers"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/routes"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/sheets"
	"github.com/miramar-experience/api-go/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the dependency graph shared by every subcommand.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	repos *repository.Repositories

	auth      *services.AuthService
	ads       *services.AdService
	listing   *services.ListingService
	analytics *services.AnalyticsService
	dashboard *services.DashboardService
	settings  *services.SettingsService
	sync      *services.SyncService
	images    *storage.ImageStore
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using the in-memory store, data is lost on restart")
		a.repos = repository.NewMemory(time.Now).Repositories()
	default:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.repos = repository.NewGorm(db, time.Now)
	}

	notifier := services.Notifiers{services.LogNotifier{Log: log.Named("revalidate")}}
	if cfg.RevalidateURL != "" {
		notifier = append(notifier, services.WebhookNotifier{
			URL:    cfg.RevalidateURL,
			Secret: cfg.RevalidateSecret,
			Client: &http.Client{Timeout: 5 * time.Second},
			Log:    log.Named("revalidate"),
		})
	}

	heroCap := ranking.HeroCap{Limit: cfg.HeroLimit}
	publisher := sheets.NewPublisher(
		sheets.Chain{sheets.FromSettings(a.repos.Settings), sheets.FromEnv(cfg.Google)},
		sheets.GoogleDialer,
		log.Named("sheets"),
	)

	a.auth = services.NewAuthService(a.repos.Users, cfg.JWTSecret, time.Now, log.Named("auth"))
	a.ads = services.NewAdService(a.repos.Ads, heroCap, notifier, time.Now, log.Named("ads"))
	a.listing = services.NewListingService(a.repos.Ads, services.ListingOptions{
		ReadTimeout: cfg.ReadTimeout,
		HeroSlots:   cfg.HeroLimit,
		Carousel:    ranking.CarouselOptions{Loop: cfg.CarouselLoop},
		Promo:       cfg.PromoCard,
	}, time.Now, log.Named("listing"))
	a.analytics = services.NewAnalyticsService(a.repos.Events, a.repos.Ads, time.Now, log.Named("analytics"))
	a.dashboard = services.NewDashboardService(a.repos.Ads, heroCap)
	a.settings = services.NewSettingsService(a.repos.Settings, notifier, log.Named("settings"))
	a.sync = services.NewSyncService(a.repos.Ads, a.repos.Settings, publisher, cfg.Google, log.Named("sync"))

	images, err := storage.NewR2ImageStore(cfg.R2)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("R2 is not configured, image uploads are disabled")
	case err != nil:
		return nil, err
	default:
		a.images = images
	}
	return a, nil
}

func (a *app) controllers() routes.Controllers {
	return routes.Controllers{
		Auth:          controllers.NewAuthController(a.auth, a.log),
		Places:        controllers.NewPlaceController(a.listing, a.analytics, a.log),
		Ads:           controllers.NewAdController(a.ads, a.log),
		Admin:         controllers.NewAdminController(a.dashboard, a.analytics, a.settings, a.log),
		Upload:        controllers.NewUploadController(a.images, a.log),
		Sync:          controllers.NewSyncController(a.sync, a.log),
		Authenticator: a.auth,
		CronSecret:    a.cfg.CronSecret,
	}
}

func (a *app) Close() {
	a.analytics.Wait()
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
