package usecase

import (
	"context"
	"strconv"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SettingsUseCase = (*settingsUC)(nil)

// SettingsUseCase reads the merged policy settings and applies validated
// admin overrides.
type SettingsUseCase interface {
	// Get returns a fully populated settings record: stored overrides merged
	// onto built-in defaults.
	Get(ctx context.Context) (*model.Settings, error)
	// Set validates key and value, stores the override and records the change
	// in the audit log. Unsupported keys and non-integer values for integer
	// keys are rejected with no state change.
	Set(ctx context.Context, adminID int64, key, value string) error
}

type settingsUC struct {
	settings repository.SettingsRepository
	log      *zerolog.Logger
}

func NewSettingsUseCase(settings repository.SettingsRepository, logger *zerolog.Logger) *settingsUC {
	return &settingsUC{settings: settings, log: logger}
}

func (u *settingsUC) Get(ctx context.Context) (*model.Settings, error) {
	defer logging.TraceDuration(u.log, "SettingsUC.Get")()

	overrides, err := u.settings.LoadOverrides(ctx)
	if err != nil {
		return nil, err
	}

	s := model.DefaultSettings()
	if v, ok := overrides[model.SettingVerifyLink]; ok {
		s.VerifyLink = v
	}
	if v, ok := overrides[model.SettingZipPassword]; ok {
		s.ZipPassword = v
	}
	setInt := func(key string, dst *int) {
		raw, ok := overrides[key]
		if !ok {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			// A corrupt override falls back to the default rather than
			// poisoning every read.
			u.log.Warn().Str("key", key).Str("value", raw).Msg("ignoring non-integer settings override")
			return
		}
		*dst = n
	}
	setInt(model.SettingDeleteTimeMinutes, &s.DeleteTimeMinutes)
	setInt(model.SettingVerificationDays, &s.VerificationDays)
	setInt(model.SettingFreeDownloads, &s.FreeDownloads)
	setInt(model.SettingPremiumMinutes, &s.PremiumMinutes)
	return &s, nil
}

func (u *settingsUC) Set(ctx context.Context, adminID int64, key, value string) error {
	defer logging.TraceDuration(u.log, "SettingsUC.Set")()

	switch {
	case model.IntSettingKeys[key]:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.ErrNotInteger
		}
		// delete_time_minutes and free_downloads may be zero (no deletion,
		// no free quota); the window lengths must stay positive.
		floor := 0
		if key == model.SettingVerificationDays || key == model.SettingPremiumMinutes {
			floor = 1
		}
		if n < floor {
			return domain.ErrInvalidArgument
		}
	case model.StringSettingKeys[key]:
		// any string is acceptable
	default:
		return domain.ErrUnsupportedKey
	}

	overrides, err := u.settings.LoadOverrides(ctx)
	if err != nil {
		return err
	}
	change := repository.SettingChange{
		Key:      key,
		OldValue: overrides[key],
		NewValue: value,
		AdminID:  adminID,
	}
	if err := u.settings.Set(ctx, change); err != nil {
		return err
	}
	u.log.Info().Str("key", key).Str("value", value).Int64("admin_id", adminID).Msg("setting updated")
	return nil
}
