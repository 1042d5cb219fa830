package models

// Known website setting keys
const (
	SettingSiteTitle         = "site_title"
	SettingContactEmail      = "contact_email"
	SettingGoogleAnalyticsID = "google_analytics_id"
)

type WebsiteSetting struct {
	ID      uint   `gorm:"primaryKey"`
	Setting string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Content string `gorm:"type:text"`
}

func (WebsiteSetting) TableName() string {
	return "website_settings"
}

// IsKnownSetting reports whether key is one of the editable settings.
func IsKnownSetting(key string) bool {
	switch key {
	case SettingSiteTitle, SettingContactEmail, SettingGoogleAnalyticsID:
		return true
	}
	return false
}
