package config

import (
	"os"
	"strings"
)

const DefaultSheetTab = "BotData"

// GoogleConfig is the environment-level service account used to write the
// chatbot spreadsheet. Admin settings can override every field.
type GoogleConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	CredentialsFile     string
	SheetID             string
	SheetTab            string
}

func NewGoogleConfig() *GoogleConfig {
	tab := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_TAB"))
	if tab == "" {
		tab = DefaultSheetTab
	}
	return &GoogleConfig{
		ServiceAccountEmail: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL")),
		PrivateKey:          os.Getenv("GOOGLE_PRIVATE_KEY"),
		CredentialsFile:     strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		SheetID:             strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID")),
		SheetTab:            tab,
	}
}
