package repository

import "context"

// -----------------------------
// Policy settings
// -----------------------------

// SettingChange is one row of the append-only settings audit log.
type SettingChange struct {
	Key      string
	OldValue string
	NewValue string
	AdminID  int64
}

type SettingsRepository interface {
	// LoadOverrides returns the raw stored key/value overrides. Keys absent
	// from the map resolve to built-in defaults at the use-case layer.
	LoadOverrides(ctx context.Context) (map[string]string, error)
	// Set stores one override and appends the change to the audit log.
	Set(ctx context.Context, change SettingChange) error
}
