package repository

import (
	"context"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
)

// -----------------------------
// User entitlements
// -----------------------------

type UserRepository interface {
	// FindOrCreate returns the entitlement record for tgID, creating it with
	// zero defaults on first interaction.
	FindOrCreate(ctx context.Context, tgID int64) (*model.User, error)
	Find(ctx context.Context, tgID int64) (*model.User, error)
	// SetVerified stamps a successful verification: quota is reset to
	// `downloads`, not added to whatever was left.
	SetVerified(ctx context.Context, tgID int64, until time.Time, downloads int) error
	SetPremium(ctx context.Context, tgID int64, until time.Time) error
	// ConsumeDownload atomically decrements downloads_left by one, with a
	// floor at zero. Returns false when no quota was left to consume.
	ConsumeDownload(ctx context.Context, tgID int64) (bool, error)
	SetLastFileCode(ctx context.Context, tgID int64, code string) error
	// CountUsers returns total / verified-flagged / premium-flagged counts.
	CountUsers(ctx context.Context) (total, verified, premium int, err error)
}
