package model

// Settings is the process-wide, admin-mutable policy record. Reads always
// return a fully populated value: stored overrides are merged onto
// DefaultSettings by the settings use case.
type Settings struct {
	VerifyLink        string
	DeleteTimeMinutes int
	VerificationDays  int
	FreeDownloads     int
	ZipPassword       string
	PremiumMinutes    int
}

// Recognized admin keys for /set and the admin API.
const (
	SettingVerifyLink        = "verify_link"
	SettingDeleteTimeMinutes = "delete_time_minutes"
	SettingVerificationDays  = "verification_days"
	SettingFreeDownloads     = "free_downloads"
	SettingZipPassword       = "zip_password"
	SettingPremiumMinutes    = "premium_minutes"
)

// IntSettingKeys lists the keys whose values must parse as integers.
var IntSettingKeys = map[string]bool{
	SettingDeleteTimeMinutes: true,
	SettingVerificationDays:  true,
	SettingFreeDownloads:     true,
	SettingPremiumMinutes:    true,
}

// StringSettingKeys lists the free-form string keys.
var StringSettingKeys = map[string]bool{
	SettingVerifyLink:  true,
	SettingZipPassword: true,
}

func DefaultSettings() Settings {
	return Settings{
		VerifyLink:        "https://t.me/yourchannel/123",
		DeleteTimeMinutes: 10,
		VerificationDays:  1,
		FreeDownloads:     3,
		ZipPassword:       "Legalstuff321",
		PremiumMinutes:    1440,
	}
}
