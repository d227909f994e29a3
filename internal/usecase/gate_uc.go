package usecase

import (
	"context"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/metrics"
	"github.com/Sanjay-off/telegram-filebot/internal/token"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AccessGateUseCase = (*gateUC)(nil)

// AccessGateUseCase is the access-gating state machine: given a user's
// entitlement state and a requested file, it decides whether to deliver,
// demand an action, or deny.
type AccessGateUseCase interface {
	EvaluateFileRequest(ctx context.Context, userID int64, fileCode string, now time.Time) (*model.Decision, error)
	// CompleteVerification checks a decoded verification challenge with the
	// external service; on success it stamps the verification window and
	// resets the download quota.
	CompleteVerification(ctx context.Context, userID int64, challenge string, now time.Time) (bool, error)
}

type gateUC struct {
	users      repository.UserRepository
	settings   SettingsUseCase
	membership adapter.MembershipChecker
	verifier   adapter.VerificationChecker
	channels   []int64
	log        *zerolog.Logger
}

func NewAccessGateUseCase(
	users repository.UserRepository,
	settings SettingsUseCase,
	membership adapter.MembershipChecker,
	verifier adapter.VerificationChecker,
	forceSubChannels []int64,
	logger *zerolog.Logger,
) *gateUC {
	return &gateUC{
		users:      users,
		settings:   settings,
		membership: membership,
		verifier:   verifier,
		channels:   forceSubChannels,
		log:        logger,
	}
}

// EvaluateFileRequest applies the gate checks in fixed order, first match
// wins: subscription, premium short-circuit, verification, quota, grant.
// Subscription is a hard prerequisite: an unsubscribed premium user is still
// blocked at the first gate.
func (u *gateUC) EvaluateFileRequest(ctx context.Context, userID int64, fileCode string, now time.Time) (*model.Decision, error) {
	defer logging.TraceDuration(u.log, "AccessGate.EvaluateFileRequest")()

	// 1) Force-subscription.
	missing := u.missingChannels(ctx, userID)
	if len(missing) > 0 {
		return u.decided(&model.Decision{
			Kind:            model.DecisionRequireSubscription,
			MissingChannels: missing,
			RetryToken:      token.EncodeFileCode(fileCode),
		}), nil
	}

	user, err := u.users.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := u.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	// 2) Premium supersedes verification and quota entirely.
	if user.EffectivelyPremium(now) {
		if err := u.users.SetLastFileCode(ctx, userID, fileCode); err != nil {
			u.log.Warn().Err(err).Int64("tg_id", userID).Msg("record last file code")
		}
		return u.decided(&model.Decision{Kind: model.DecisionGrant, ConsumedQuota: false}), nil
	}

	// 3) Verification window.
	if !user.EffectivelyVerified(now) {
		return u.decided(&model.Decision{
			Kind:           model.DecisionRequireVerification,
			ChallengeToken: token.Encode(token.NewChallenge(userID)),
			VerifyLink:     settings.VerifyLink,
		}), nil
	}

	// 4) Quota.
	if user.DownloadsLeft <= 0 {
		return u.decided(&model.Decision{
			Kind:           model.DecisionQuotaExhausted,
			ChallengeToken: token.Encode(token.NewChallenge(userID)),
			VerifyLink:     settings.VerifyLink,
		}), nil
	}

	// 5) Grant. The decrement happens before delivery and is not rolled back
	// if delivery later fails. The floor guard also closes the race between
	// two concurrent requests from the same user.
	ok, err := u.users.ConsumeDownload(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return u.decided(&model.Decision{
			Kind:           model.DecisionQuotaExhausted,
			ChallengeToken: token.Encode(token.NewChallenge(userID)),
			VerifyLink:     settings.VerifyLink,
		}), nil
	}
	if err := u.users.SetLastFileCode(ctx, userID, fileCode); err != nil {
		u.log.Warn().Err(err).Int64("tg_id", userID).Msg("record last file code")
	}
	return u.decided(&model.Decision{Kind: model.DecisionGrant, ConsumedQuota: true}), nil
}

func (u *gateUC) CompleteVerification(ctx context.Context, userID int64, challenge string, now time.Time) (bool, error) {
	defer logging.TraceDuration(u.log, "AccessGate.CompleteVerification")()

	ok, err := u.verifier.Check(ctx, userID, challenge)
	if err != nil {
		// A failing or unreachable checker is a rejected verification, never
		// an approval.
		u.log.Warn().Err(err).Int64("tg_id", userID).Msg("verification check failed")
		metrics.IncVerification(false)
		return false, nil
	}
	if !ok {
		metrics.IncVerification(false)
		return false, nil
	}

	settings, err := u.settings.Get(ctx)
	if err != nil {
		return false, err
	}
	until := now.AddDate(0, 0, settings.VerificationDays)
	// Quota is reset to the configured amount, never added: verifying twice
	// in a row does not accumulate downloads.
	if err := u.users.SetVerified(ctx, userID, until, settings.FreeDownloads); err != nil {
		return false, err
	}
	metrics.IncVerification(true)
	u.log.Info().Int64("tg_id", userID).Time("until", until).Msg("user verified")
	return true, nil
}

// missingChannels collects every required channel the user has not joined.
// Lookup errors and "unknown" count as not joined.
func (u *gateUC) missingChannels(ctx context.Context, userID int64) []int64 {
	var missing []int64
	for _, ch := range u.channels {
		status, err := u.membership.MemberStatus(ctx, ch, userID)
		if err != nil {
			u.log.Debug().Err(err).Int64("channel", ch).Int64("tg_id", userID).Msg("membership lookup failed")
			missing = append(missing, ch)
			continue
		}
		switch status {
		case adapter.MemberStatusLeft, adapter.MemberStatusKicked, adapter.MemberStatusBanned, adapter.MemberStatusUnknown:
			missing = append(missing, ch)
		}
	}
	return missing
}

func (u *gateUC) decided(d *model.Decision) *model.Decision {
	metrics.IncGateDecision(d.Kind)
	return d
}
