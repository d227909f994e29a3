//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"
)

func TestSettings_GetDefaults(t *testing.T) {
	uc := usecase.NewSettingsUseCase(newMemSettingsRepo(), newTestLogger())

	s, err := uc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *s != model.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", *s)
	}
}

func TestSettings_GetMergesOverrides(t *testing.T) {
	repo := newMemSettingsRepo()
	repo.overrides[model.SettingFreeDownloads] = "7"
	repo.overrides[model.SettingVerifyLink] = "https://t.me/mychannel/9"
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())

	s, err := uc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.FreeDownloads != 7 {
		t.Fatalf("free downloads = %d, want 7", s.FreeDownloads)
	}
	if s.VerifyLink != "https://t.me/mychannel/9" {
		t.Fatalf("verify link = %q", s.VerifyLink)
	}
	// Untouched keys stay at their defaults.
	if s.DeleteTimeMinutes != model.DefaultSettings().DeleteTimeMinutes {
		t.Fatalf("delete time = %d, want default", s.DeleteTimeMinutes)
	}
}

func TestSettings_CorruptIntOverrideIgnored(t *testing.T) {
	repo := newMemSettingsRepo()
	repo.overrides[model.SettingPremiumMinutes] = "not-a-number"
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())

	s, err := uc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.PremiumMinutes != model.DefaultSettings().PremiumMinutes {
		t.Fatalf("premium minutes = %d, want default", s.PremiumMinutes)
	}
}

func TestSettings_SetValidInt(t *testing.T) {
	repo := newMemSettingsRepo()
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())

	if err := uc.Set(context.Background(), 99, model.SettingFreeDownloads, "10"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if repo.overrides[model.SettingFreeDownloads] != "10" {
		t.Fatalf("stored override = %q, want 10", repo.overrides[model.SettingFreeDownloads])
	}
	if len(repo.audit) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(repo.audit))
	}
	change := repo.audit[0]
	if change.AdminID != 99 || change.NewValue != "10" || change.OldValue != "" {
		t.Fatalf("audit entry = %+v", change)
	}
}

func TestSettings_SetRecordsOldValue(t *testing.T) {
	repo := newMemSettingsRepo()
	repo.overrides[model.SettingZipPassword] = "old-pass"
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())

	if err := uc.Set(context.Background(), 1, model.SettingZipPassword, "new-pass"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if repo.audit[0].OldValue != "old-pass" {
		t.Fatalf("old value = %q, want old-pass", repo.audit[0].OldValue)
	}
}

func TestSettings_SetRejectsNonInteger(t *testing.T) {
	repo := newMemSettingsRepo()
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())

	err := uc.Set(context.Background(), 1, model.SettingVerificationDays, "soon")
	if !errors.Is(err, domain.ErrNotInteger) {
		t.Fatalf("err = %v, want ErrNotInteger", err)
	}
	if len(repo.overrides) != 0 || len(repo.audit) != 0 {
		t.Fatal("rejected set must leave no trace")
	}
}

func TestSettings_SetRejectsOutOfRange(t *testing.T) {
	repo := newMemSettingsRepo()
	uc := usecase.NewSettingsUseCase(repo, newTestLogger())
	ctx := context.Background()

	cases := []struct {
		key   string
		value string
	}{
		{model.SettingFreeDownloads, "-1"},
		{model.SettingDeleteTimeMinutes, "-5"},
		{model.SettingVerificationDays, "0"},
		{model.SettingPremiumMinutes, "-1"},
	}
	for _, tc := range cases {
		if err := uc.Set(ctx, 1, tc.key, tc.value); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("Set(%s, %s) = %v, want ErrInvalidArgument", tc.key, tc.value, err)
		}
	}
	if len(repo.overrides) != 0 || len(repo.audit) != 0 {
		t.Fatal("rejected set must leave no trace")
	}

	// Zero is a valid value for the keys without a positive floor.
	if err := uc.Set(ctx, 1, model.SettingFreeDownloads, "0"); err != nil {
		t.Fatalf("free_downloads 0: %v", err)
	}
	if err := uc.Set(ctx, 1, model.SettingDeleteTimeMinutes, "0"); err != nil {
		t.Fatalf("delete_time_minutes 0: %v", err)
	}
}

func TestSettings_SetRejectsUnknownKey(t *testing.T) {
	uc := usecase.NewSettingsUseCase(newMemSettingsRepo(), newTestLogger())

	err := uc.Set(context.Background(), 1, "max_velocity", "3")
	if !errors.Is(err, domain.ErrUnsupportedKey) {
		t.Fatalf("err = %v, want ErrUnsupportedKey", err)
	}
}
