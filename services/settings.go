package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/repository"
	"github.com/miramar-experience/api-go/sheets"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

const secretMask = "********"

type SettingView struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Description string     `json:"description"`
	Secret      bool       `json:"secret"`
	Configured  bool       `json:"configured"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// SettingsService lets admins edit the integration settings. Secret values
// are never returned.
type SettingsService struct {
	settings repository.SettingRepository
	notifier ChangeNotifier
	log      *zap.Logger
}

func NewSettingsService(settings repository.SettingRepository, notifier ChangeNotifier, log *zap.Logger) *SettingsService {
	if notifier == nil {
		notifier = Notifiers{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{settings: settings, notifier: notifier, log: log}
}

func (s *SettingsService) List(ctx context.Context, session *utils.Session) ([]SettingView, error) {
	if !session.IsAdmin() {
		return nil, ErrUnauthorized
	}
	stored, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	byKey := make(map[string]models.SystemSetting, len(stored))
	for _, st := range stored {
		byKey[st.Key] = st
	}

	views := make([]SettingView, 0, len(models.KnownSettings))
	for _, spec := range models.KnownSettings {
		v := SettingView{Key: spec.Key, Description: spec.Description, Secret: spec.Secret}
		if st, ok := byKey[spec.Key]; ok {
			v.Configured = st.Value != ""
			v.Value = st.Value
			updated := st.UpdatedAt
			v.UpdatedAt = &updated
		}
		if spec.Secret && v.Configured {
			v.Value = secretMask
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *SettingsService) Set(ctx context.Context, session *utils.Session, key, value string) error {
	if !session.IsAdmin() {
		return ErrUnauthorized
	}
	spec, ok := models.LookupSetting(key)
	if !ok {
		return invalid("key", "unknown setting")
	}
	value, err := normalizeSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.settings.Set(ctx, models.SystemSetting{Key: key, Value: value, Description: spec.Description}); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}

	s.log.Info("setting updated", zap.String("key", key), zap.Uint("user_id", session.UserID))
	s.notifier.Invalidate(ctx, "/admin/settings/integrations")
	return nil
}

var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

func normalizeSetting(key, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch key {
	case models.SettingGoogleSheetID:
		if m := spreadsheetURL.FindStringSubmatch(value); m != nil {
			value = m[1]
		}
	case models.SettingServiceAccountMail:
		if value != "" {
			if err := validate.Var(value, "email"); err != nil {
				return "", invalid("value", "must be a valid e-mail address")
			}
		}
	case models.SettingServiceAccountKey:
		if value != "" {
			value = sheets.NormalizePrivateKey(value)
			if !strings.Contains(value, "PRIVATE KEY") {
				return "", invalid("value", "must be a PEM encoded private key")
			}
		}
	case models.SettingGoogleSheetTab:
		if len(value) > 100 {
			return "", invalid("value", "cannot exceed 100 characters")
		}
	}
	return value, nil
}
