package models

import "time"

const (
	SettingGoogleSheetID      = "google_sheet_id"
	SettingGoogleSheetTab     = "google_sheet_tab"
	SettingServiceAccountMail = "google_service_account_email"
	SettingServiceAccountKey  = "google_private_key"
)

// SystemSetting is an admin-editable key/value pair.
type SystemSetting struct {
	Key         string    `json:"key" gorm:"primaryKey;type:varchar(64)"`
	Value       string    `json:"value" gorm:"type:text;not null"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SettingSpec describes a key the admin panel is allowed to edit.
type SettingSpec struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Secret      bool   `json:"secret"`
}

var KnownSettings = []SettingSpec{
	{Key: SettingGoogleSheetID, Description: "Spreadsheet that receives the chatbot knowledge base"},
	{Key: SettingGoogleSheetTab, Description: "Tab name inside the spreadsheet"},
	{Key: SettingServiceAccountMail, Description: "Service account e-mail used to write the sheet"},
	{Key: SettingServiceAccountKey, Description: "Service account private key (PEM)", Secret: true},
}

func LookupSetting(key string) (SettingSpec, bool) {
	for _, s := range KnownSettings {
		if s.Key == key {
			return s, true
		}
	}
	return SettingSpec{}, false
}
