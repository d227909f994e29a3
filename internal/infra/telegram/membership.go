package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
)

var _ adapter.MembershipChecker = (*MembershipChecker)(nil)

// MembershipChecker answers force-subscription lookups through the Telegram
// getChatMember call. Any failure maps to "unknown", which the gate counts
// as not joined.
type MembershipChecker struct {
	api     *tgbotapi.BotAPI
	timeout time.Duration
}

func NewMembershipChecker(b *Bot) *MembershipChecker {
	return &MembershipChecker{api: b.api, timeout: 5 * time.Second}
}

func (m *MembershipChecker) MemberStatus(ctx context.Context, channelID, userID int64) (adapter.MemberStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type result struct {
		member tgbotapi.ChatMember
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		member, err := m.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: channelID,
				UserID: userID,
			},
		})
		ch <- result{member: member, err: err}
	}()

	select {
	case <-ctx.Done():
		return adapter.MemberStatusUnknown, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return adapter.MemberStatusUnknown, res.err
		}
		switch res.member.Status {
		case "left":
			return adapter.MemberStatusLeft, nil
		case "kicked":
			return adapter.MemberStatusKicked, nil
		case "banned":
			return adapter.MemberStatusBanned, nil
		case "member", "administrator", "creator", "restricted":
			return adapter.MemberStatusMember, nil
		default:
			return adapter.MemberStatusUnknown, nil
		}
	}
}
