package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/miramar-experience/api-go/config"
	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/ranking"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/sheets"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

// Publisher writes rows to a spreadsheet tab.
type Publisher interface {
	Publish(ctx context.Context, target sheets.Target, rows []sheets.Row, override ...sheets.Provider) (int, error)
}

type SyncResult struct {
	Count         int    `json:"count"`
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab"`
}

// SyncService exports the visible catalogue to the chatbot spreadsheet.
type SyncService struct {
	ads       repository.AdRepository
	settings  repository.SettingRepository
	publisher Publisher
	google    *config.GoogleConfig
	log       *zap.Logger
}

func NewSyncService(ads repository.AdRepository, settings repository.SettingRepository, publisher Publisher, google *config.GoogleConfig, log *zap.Logger) *SyncService {
	if google == nil {
		google = &config.GoogleConfig{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{ads: ads, settings: settings, publisher: publisher, google: google, log: log}
}

// Sync replaces the knowledge base tab with the current catalogue. Callers
// may pass a credentials override that takes precedence over settings and
// environment. Errors are returned as they happened.
func (s *SyncService) Sync(ctx context.Context, session *utils.Session, override ...sheets.Provider) (*SyncResult, error) {
	if !session.CanSync() {
		return nil, ErrUnauthorized
	}

	target := s.target(ctx)
	if target.SpreadsheetID == "" {
		return nil, sheets.ErrMissingSpreadsheet
	}

	ads, err := s.ads.Find(ctx, ranking.Filter{Context: ranking.ContextDirectory})
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	rows := sheets.KnowledgeRows(ranking.Rank(ads))

	count, err := s.publisher.Publish(ctx, target, rows, override...)
	if err != nil {
		s.log.Error("google sheet sync failed", zap.String("spreadsheet_id", target.SpreadsheetID), zap.Error(err))
		return nil, err
	}

	s.log.Info("knowledge base synced",
		zap.Int("rows", count),
		zap.Bool("cron", session.Cron),
		zap.Uint("user_id", session.UserID),
	)
	return &SyncResult{Count: count, SpreadsheetID: target.SpreadsheetID, Tab: target.Tab}, nil
}

// target resolves the spreadsheet from settings first and the environment
// second. A settings failure falls back to the environment.
func (s *SyncService) target(ctx context.Context) sheets.Target {
	t := sheets.Target{
		SpreadsheetID: s.setting(ctx, models.SettingGoogleSheetID),
		Tab:           s.setting(ctx, models.SettingGoogleSheetTab),
	}
	if t.SpreadsheetID == "" {
		t.SpreadsheetID = s.google.SheetID
	}
	if t.Tab == "" {
		t.Tab = s.google.SheetTab
	}
	if t.Tab == "" {
		t.Tab = config.DefaultSheetTab
	}
	return t
}

func (s *SyncService) setting(ctx context.Context, key string) string {
	if s.settings == nil {
		return ""
	}
	v, err := s.settings.Get(ctx, key)
	if err != nil {
		s.log.Warn("could not read setting, using environment", zap.String("key", key), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(v)
}
