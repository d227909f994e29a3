package model

import "time"

// User is the per-Telegram-user entitlement record: verification window,
// remaining free downloads and premium window. Created lazily on first
// interaction, never deleted.
type User struct {
	TelegramID    int64
	IsVerified    bool
	VerifiedUntil *time.Time
	DownloadsLeft int
	IsPremium     bool
	PremiumUntil  *time.Time
	LastFileCode  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewUser(tgID int64) *User {
	now := time.Now().UTC()
	return &User{
		TelegramID: tgID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EffectivelyVerified reports whether the verification flag is set AND its
// expiry lies in the future. The stored flag alone is never trusted.
func (u *User) EffectivelyVerified(now time.Time) bool {
	return u.IsVerified && u.VerifiedUntil != nil && u.VerifiedUntil.After(now)
}

// EffectivelyPremium reports whether premium is active at `now`. Effective
// premium supersedes verification and quota entirely.
func (u *User) EffectivelyPremium(now time.Time) bool {
	return u.IsPremium && u.PremiumUntil != nil && u.PremiumUntil.After(now)
}
