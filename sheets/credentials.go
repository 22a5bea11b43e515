package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/miramar-experience/api-go/config"
	"github.com/miramar-experience/api-go/models"
	"golang.org/x/oauth2/google"
	sheets "google.golang.org/api/sheets/v4"
)

var ErrMissingCredentials = errors.New("missing Google service account credentials (service account email or private key)")

// Credentials identify the service account that writes the spreadsheet.
type Credentials struct {
	Email      string
	PrivateKey string
}

func (c Credentials) Complete() bool {
	return c.Email != "" && c.PrivateKey != ""
}

// NormalizePrivateKey accepts keys pasted with surrounding quotes or with
// literal "\n" sequences in place of line breaks.
func NormalizePrivateKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= 2 {
		if (key[0] == '"' && key[len(key)-1] == '"') || (key[0] == '\'' && key[len(key)-1] == '\'') {
			key = key[1 : len(key)-1]
		}
	}
	key = strings.ReplaceAll(key, `\r\n`, "\n")
	key = strings.ReplaceAll(key, `\n`, "\n")
	return strings.TrimSpace(key) + "\n"
}

func normalize(c Credentials) Credentials {
	c.Email = strings.TrimSpace(c.Email)
	if strings.TrimSpace(c.PrivateKey) != "" {
		c.PrivateKey = NormalizePrivateKey(c.PrivateKey)
	} else {
		c.PrivateKey = ""
	}
	return c
}

// Provider yields credentials from one source. Incomplete credentials mean
// the source has nothing to offer.
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type ProviderFunc func(ctx context.Context) (Credentials, error)

func (f ProviderFunc) Credentials(ctx context.Context) (Credentials, error) { return f(ctx) }

// Static returns fixed credentials, used for per-call overrides.
func Static(c Credentials) Provider {
	return ProviderFunc(func(context.Context) (Credentials, error) { return c, nil })
}

// SettingsReader is satisfied by repository.SettingRepository.
type SettingsReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// FromSettings reads the credentials stored by admins in system settings.
func FromSettings(settings SettingsReader) Provider {
	return ProviderFunc(func(ctx context.Context) (Credentials, error) {
		email, err := settings.Get(ctx, models.SettingServiceAccountMail)
		if err != nil {
			return Credentials{}, fmt.Errorf("read %s: %w", models.SettingServiceAccountMail, err)
		}
		key, err := settings.Get(ctx, models.SettingServiceAccountKey)
		if err != nil {
			return Credentials{}, fmt.Errorf("read %s: %w", models.SettingServiceAccountKey, err)
		}
		return Credentials{Email: email, PrivateKey: key}, nil
	})
}

// FromEnv reads GOOGLE_SERVICE_ACCOUNT_EMAIL / GOOGLE_PRIVATE_KEY, falling
// back to the GOOGLE_APPLICATION_CREDENTIALS key file.
func FromEnv(cfg *config.GoogleConfig) Provider {
	return ProviderFunc(func(ctx context.Context) (Credentials, error) {
		if cfg == nil {
			return Credentials{}, nil
		}
		c := Credentials{Email: cfg.ServiceAccountEmail, PrivateKey: cfg.PrivateKey}
		if !c.Complete() && cfg.CredentialsFile != "" {
			return FromFile(cfg.CredentialsFile).Credentials(ctx)
		}
		return c, nil
	})
}

// FromFile reads a service account JSON key as downloaded from the console.
func FromFile(path string) Provider {
	return ProviderFunc(func(context.Context) (Credentials, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return Credentials{}, fmt.Errorf("read credentials file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			return Credentials{}, fmt.Errorf("parse credentials file: %w", err)
		}
		return Credentials{Email: jwtConfig.Email, PrivateKey: string(jwtConfig.PrivateKey)}, nil
	})
}

// Chain tries providers in order and returns the first complete credentials.
type Chain []Provider

func (ch Chain) Resolve(ctx context.Context) (Credentials, error) {
	var errs []error
	for _, p := range ch {
		if p == nil {
			continue
		}
		c, err := p.Credentials(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if c = normalize(c); c.Complete() {
			return c, nil
		}
	}
	return Credentials{}, errors.Join(append([]error{ErrMissingCredentials}, errs...)...)
}
