// Package application composes the use cases into the bot's user-facing
// flows. The Telegram adapter parses updates and forwards them here; the
// facade decides and talks back through the ResourceTransport.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/metrics"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/payment"
	redisinfra "github.com/Sanjay-off/telegram-filebot/internal/infra/redis"
	"github.com/Sanjay-off/telegram-filebot/internal/token"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"

	"github.com/rs/zerolog"
)

// Scheduler arms the delayed removal of a delivered message. Implemented by
// sched.Deleter.
type Scheduler interface {
	Schedule(msg adapter.DeliveredMessage, delay time.Duration, fileCode string)
}

// Locker serializes the gate per user; Limiter throttles file requests.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// FacadeConfig carries the static knobs the flows need.
type FacadeConfig struct {
	BotUsername   string
	AdminIDs      []int64
	StorageFileID string
	UPIID         string
	PlanName      string
	PlanAmount    int64
}

const (
	fileRequestLimit  = 10
	fileRequestWindow = time.Minute
	gateLockTTL       = 15 * time.Second
)

type BotFacade struct {
	gate     usecase.AccessGateUseCase
	payments usecase.PaymentUseCase
	settings usecase.SettingsUseCase
	stats    usecase.StatsUseCase
	template usecase.TemplateUseCase
	users    repository.UserRepository

	transport adapter.ResourceTransport
	scheduler Scheduler
	locker    Locker
	limiter   Limiter

	cfg    FacadeConfig
	admins map[int64]struct{}
	log    *zerolog.Logger
}

func NewBotFacade(
	gate usecase.AccessGateUseCase,
	payments usecase.PaymentUseCase,
	settings usecase.SettingsUseCase,
	stats usecase.StatsUseCase,
	template usecase.TemplateUseCase,
	users repository.UserRepository,
	transport adapter.ResourceTransport,
	scheduler Scheduler,
	locker Locker,
	limiter Limiter,
	cfg FacadeConfig,
	logger *zerolog.Logger,
) *BotFacade {
	admins := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = struct{}{}
	}
	return &BotFacade{
		gate:      gate,
		payments:  payments,
		settings:  settings,
		stats:     stats,
		template:  template,
		users:     users,
		transport: transport,
		scheduler: scheduler,
		locker:    locker,
		limiter:   limiter,
		cfg:       cfg,
		admins:    admins,
		log:       logger,
	}
}

func (b *BotFacade) IsAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

// HandleStart processes /start with an optional deep-link payload. Malformed
// payloads fall through to the default welcome, never to an error.
func (b *BotFacade) HandleStart(ctx context.Context, userID, chatID int64, payload string) error {
	if _, err := b.users.FindOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if payload != "" {
		if ref, ok := token.ParseRef(payload); ok {
			switch ref.Kind {
			case token.KindFile:
				return b.handleFileRequest(ctx, userID, chatID, ref.Code)
			case token.KindVerify:
				return b.completeVerification(ctx, userID, chatID, ref.Code)
			}
		}
		// fall through: unknown payload behaves like a plain /start
	}

	rows := [][]adapter.InlineButton{
		{{Text: "📥 Get File", Data: token.CallbackMenuGetFile}},
		{{Text: "❓ Help", Data: token.CallbackMenuHelp}, {Text: "💎 Premium", Data: token.CallbackMenuPremium}},
		{{Text: "Close", Data: token.CallbackCloseMsg}},
	}
	return b.transport.SendButtons(ctx, chatID,
		"👋 Welcome!\n\nUse the buttons or /help to learn how to use this bot.", rows)
}

func (b *BotFacade) HandleHelp(ctx context.Context, chatID int64) error {
	text := "How to use this bot:\n\n" +
		"1. Go to the public group and tap the DOWNLOAD button on a post.\n" +
		"2. If asked, complete verification (shortener + channels).\n" +
		"3. After verification, tap DOWNLOAD again and you'll get the file here.\n" +
		"4. Premium users can skip verification & limits.\n\n" +
		"Commands:\n" +
		"/start - Start the bot\n" +
		"/help - Show this help\n" +
		"/premium_status - Check your premium status"
	return b.transport.SendMessage(ctx, chatID, text)
}

func (b *BotFacade) HandlePremiumStatus(ctx context.Context, userID, chatID int64) error {
	user, err := b.users.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if user.EffectivelyPremium(time.Now().UTC()) {
		return b.transport.SendMessage(ctx, chatID,
			fmt.Sprintf("💎 PREMIUM STATUS\n\nStatus: ACTIVE\nExpires: %s",
				user.PremiumUntil.Format(time.RFC1123)))
	}
	return b.transport.SendMessage(ctx, chatID,
		"👤 PREMIUM STATUS\n\nStatus: NOT PREMIUM\nYou are currently a free user.")
}

// HandleCallback dispatches a button press. The returned answer text (with
// showAlert) is what the adapter acknowledges the callback with.
func (b *BotFacade) HandleCallback(ctx context.Context, userID, chatID int64, messageID int, data string) (answer string, showAlert bool, err error) {
	verb, arg := token.SplitCallback(data)

	switch verb {
	case token.CallbackRefile, token.CallbackRetryFile:
		if ref, ok := token.ParseRef(arg); ok && ref.Kind == token.KindFile {
			return "", false, b.handleFileRequest(ctx, userID, chatID, ref.Code)
		}
		return "", false, nil

	case token.CallbackVerify:
		if ref, ok := token.ParseRef(arg); ok && ref.Kind == token.KindVerify {
			ok, err := b.gate.CompleteVerification(ctx, userID, ref.Code, time.Now().UTC())
			if err != nil {
				return "", false, err
			}
			text := "❌ Bypass detected.\nPlease open the original shortener link and complete all steps."
			if ok {
				text = "✅ Verification successful!\nNow go back to the post in the group and tap DOWNLOAD again."
			}
			return "", false, b.transport.EditMessage(ctx, chatID, messageID, text, nil)
		}
		return "", false, nil

	case token.CallbackPayVerify:
		return b.confirmPayment(ctx, chatID, messageID, arg)

	case token.CallbackMenuPremium:
		return "", false, b.openPremiumOrder(ctx, userID, chatID)

	case token.CallbackMenuGetFile:
		return "Use the DOWNLOAD button in the public group posts to request files.", true, nil

	case token.CallbackMenuHelp:
		return "Use /help to see how to use the bot.", true, nil

	case token.CallbackCloseMsg:
		if err := b.transport.DeleteMessage(ctx, chatID, messageID); err != nil {
			b.log.Debug().Err(err).Msg("close_msg delete failed")
		}
		return "", false, nil

	default:
		return "", false, nil
	}
}

// handleFileRequest runs the access gate for one file and renders the
// decision. The whole evaluation is serialized per user and rate limited.
func (b *BotFacade) handleFileRequest(ctx context.Context, userID, chatID int64, fileCode string) error {
	allowed, err := b.limiter.Allow(ctx, redisinfra.UserCommandKey(userID, "get_file"), fileRequestLimit, fileRequestWindow)
	if err != nil {
		b.log.Warn().Err(err).Int64("tg_id", userID).Msg("rate limiter unavailable")
	} else if !allowed {
		return b.transport.SendMessage(ctx, chatID, "⏳ Too many requests. Please slow down and try again in a minute.")
	}

	lockKey := redisinfra.UserLockKey(userID)
	lockToken, err := b.locker.TryLock(ctx, lockKey, gateLockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrUserBusy) {
			return b.transport.SendMessage(ctx, chatID, "⏳ Your previous request is still being processed.")
		}
		return err
	}
	defer func() {
		if err := b.locker.Unlock(ctx, lockKey, lockToken); err != nil {
			b.log.Warn().Err(err).Int64("tg_id", userID).Msg("unlock failed")
		}
	}()

	decision, err := b.gate.EvaluateFileRequest(ctx, userID, fileCode, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("evaluate file request: %w", err)
	}
	return b.renderDecision(ctx, userID, chatID, fileCode, decision)
}

func (b *BotFacade) renderDecision(ctx context.Context, userID, chatID int64, fileCode string, d *model.Decision) error {
	switch d.Kind {
	case model.DecisionRequireSubscription:
		var sb strings.Builder
		sb.WriteString("🔒 Force subscription required\n\n")
		sb.WriteString("You must join all required channels before you can download files:\n\n")
		for _, ch := range d.MissingChannels {
			fmt.Fprintf(&sb, "• %d\n", ch)
		}
		sb.WriteString("\nAfter joining, tap Try Again below.")
		rows := [][]adapter.InlineButton{{{
			Text: "🔁 Try Again",
			Data: token.Callback(token.CallbackRetryFile, d.RetryToken),
		}}}
		return b.transport.SendButtons(ctx, chatID, sb.String(), rows)

	case model.DecisionRequireVerification:
		rows := b.verificationKeyboard(d)
		return b.transport.SendButtons(ctx, chatID,
			"🔐 Verification required before downloading.\nTap VERIFY NOW or watch the guide.", rows)

	case model.DecisionQuotaExhausted:
		rows := b.verificationKeyboard(d)
		return b.transport.SendButtons(ctx, chatID,
			"⚠ You have used all free downloads for this verification.\nPlease verify again to continue.", rows)

	case model.DecisionGrant:
		return b.deliver(ctx, chatID, fileCode)

	default:
		return fmt.Errorf("unknown decision kind %q", d.Kind)
	}
}

func (b *BotFacade) verificationKeyboard(d *model.Decision) [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: "✅ VERIFY NOW", Data: token.Callback(token.CallbackVerify, d.ChallengeToken)}},
		{{Text: "📖 How to Verify", URL: d.VerifyLink}},
		{{Text: "Close", Data: token.CallbackCloseMsg}},
	}
}

// deliver sends the file and arms the delayed deletion. A failed send is
// reported with the underlying error; the quota already consumed for this
// grant is not refunded.
func (b *BotFacade) deliver(ctx context.Context, chatID int64, fileCode string) error {
	settings, err := b.settings.Get(ctx)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("File Ready ✔\n\n🗝️ Password\n%s", settings.ZipPassword)
	if settings.DeleteTimeMinutes > 0 {
		caption += fmt.Sprintf("\n\nThis file will be auto-deleted in %d minutes.", settings.DeleteTimeMinutes)
	}

	sent, err := b.transport.SendDocument(ctx, chatID, b.cfg.StorageFileID, caption)
	if err != nil {
		metrics.IncDelivery(false)
		return b.transport.SendMessage(ctx, chatID,
			fmt.Sprintf("❌ Failed to send file. Please try again later.\n%v", err))
	}
	metrics.IncDelivery(true)

	b.scheduler.Schedule(sent, time.Duration(settings.DeleteTimeMinutes)*time.Minute, fileCode)
	return nil
}

func (b *BotFacade) completeVerification(ctx context.Context, userID, chatID int64, challenge string) error {
	ok, err := b.gate.CompleteVerification(ctx, userID, challenge, time.Now().UTC())
	if err != nil {
		return err
	}
	if ok {
		return b.transport.SendMessage(ctx, chatID, "✅ Verification successful! You can now download files.")
	}
	return b.transport.SendMessage(ctx, chatID, "❌ Bypass detected. Please use the original verification link.")
}

func (b *BotFacade) openPremiumOrder(ctx context.Context, userID, chatID int64) error {
	order, err := b.payments.OpenOrder(ctx, userID, b.cfg.PlanName, b.cfg.PlanAmount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("open order: %w", err)
	}
	ref := payment.UPIReference(b.cfg.UPIID, order)

	text := fmt.Sprintf(
		"💎 Premium Payment\n\nPlan: %s\nOrder ID: %s\nAmount: %d INR\n\n"+
			"1️⃣ Pay with any UPI app using the reference below\n%s\n"+
			"2️⃣ Complete the payment\n"+
			"3️⃣ Tap \"I've Paid, Verify Payment\" below",
		order.PlanName, order.OrderID, order.Amount, ref)
	rows := [][]adapter.InlineButton{
		{{Text: "✅ I've Paid, Verify Payment", Data: token.Callback(token.CallbackPayVerify, order.OrderID)}},
		{{Text: "Close", Data: token.CallbackCloseMsg}},
	}
	return b.transport.SendButtons(ctx, chatID, text, rows)
}

func (b *BotFacade) confirmPayment(ctx context.Context, chatID int64, messageID int, orderID string) (string, bool, error) {
	settings, err := b.settings.Get(ctx)
	if err != nil {
		return "", false, err
	}
	until, err := b.payments.ConfirmOrder(ctx, orderID, settings.PremiumMinutes, time.Now().UTC())
	if err != nil {
		return "", false, err
	}
	if until == nil {
		return "Payment not found or already processed.", true, nil
	}
	text := fmt.Sprintf(
		"✅ Payment Verified!\n\nPremium active until: %s\n\n"+
			"You can now download files without verification or limits (while premium is active).",
		until.Format(time.RFC1123))
	return "", false, b.transport.EditMessage(ctx, chatID, messageID, text, nil)
}

// HandleTemplateMessage feeds a non-command private message into the
// template wizard. The wizard is an authoring tool: plain messages from
// non-admins are ignored without a reply.
func (b *BotFacade) HandleTemplateMessage(ctx context.Context, userID, chatID int64, input usecase.TemplateInput) error {
	if !b.IsAdmin(userID) {
		return nil
	}
	reply, _, err := b.template.Advance(ctx, userID, input)
	if err != nil {
		return err
	}
	if reply == "" {
		return nil
	}
	return b.transport.SendMessage(ctx, chatID, reply)
}

// ----- Admin surface -----

func (b *BotFacade) HandleAdminPanel(ctx context.Context, userID, chatID int64) error {
	if !b.IsAdmin(userID) {
		return b.transport.SendMessage(ctx, chatID, "💀 ACCESS DENIED 💀\nAdmins only.")
	}
	text := "🛠 Admin Panel\n\n" +
		"/stats - Show user statistics\n" +
		"/settings - Show current settings\n" +
		"/set <key> <value> - Update a setting\n\n" +
		"Supported keys:\n" +
		"- verify_link (URL string)\n" +
		"- delete_time_minutes (int)\n" +
		"- verification_days (int)\n" +
		"- free_downloads (int)\n" +
		"- zip_password (string)\n" +
		"- premium_minutes (int)"
	return b.transport.SendMessage(ctx, chatID, text)
}

func (b *BotFacade) HandleStats(ctx context.Context, userID, chatID int64) error {
	if !b.IsAdmin(userID) {
		return b.transport.SendMessage(ctx, chatID, "🚫 Admins only.")
	}
	counts, err := b.stats.GetCounts(ctx)
	if err != nil {
		return err
	}
	return b.transport.SendMessage(ctx, chatID, fmt.Sprintf(
		"📊 Bot Stats\n\nTotal users: %d\nVerified users: %d\nPremium users: %d",
		counts.Total, counts.Verified, counts.Premium))
}

func (b *BotFacade) HandleSettingsView(ctx context.Context, userID, chatID int64) error {
	if !b.IsAdmin(userID) {
		return b.transport.SendMessage(ctx, chatID, "🚫 Admins only.")
	}
	s, err := b.settings.Get(ctx)
	if err != nil {
		return err
	}
	return b.transport.SendMessage(ctx, chatID, fmt.Sprintf(
		"⚙ Current Settings\n\nverify_link: %s\ndelete_time_minutes: %d\nverification_days: %d\n"+
			"free_downloads: %d\nzip_password: %s\npremium_minutes: %d",
		s.VerifyLink, s.DeleteTimeMinutes, s.VerificationDays, s.FreeDownloads, s.ZipPassword, s.PremiumMinutes))
}

// HandleSet applies `/set <key> <value>`. Validation failures come back as
// specific user-visible messages with no state change.
func (b *BotFacade) HandleSet(ctx context.Context, userID, chatID int64, args string) error {
	if !b.IsAdmin(userID) {
		return b.transport.SendMessage(ctx, chatID, "🚫 Admins only.")
	}
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 || parts[0] == "" || strings.TrimSpace(parts[1]) == "" {
		return b.transport.SendMessage(ctx, chatID, "Usage: /set <key> <value>")
	}
	key, value := parts[0], strings.TrimSpace(parts[1])

	err := b.settings.Set(ctx, userID, key, value)
	switch {
	case errors.Is(err, domain.ErrUnsupportedKey):
		return b.transport.SendMessage(ctx, chatID, "❌ Unsupported key.")
	case errors.Is(err, domain.ErrNotInteger):
		return b.transport.SendMessage(ctx, chatID, "❌ Value must be an integer.")
	case errors.Is(err, domain.ErrInvalidArgument):
		return b.transport.SendMessage(ctx, chatID, "❌ Value out of range for this key.")
	case err != nil:
		return err
	}
	return b.transport.SendMessage(ctx, chatID, fmt.Sprintf("✅ %s updated to %s", key, value))
}
