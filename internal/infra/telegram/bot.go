// Package telegram binds the bot to the Telegram API: outbound transport,
// membership lookups and the polling loop that feeds updates into the
// application facade.
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Sanjay-off/telegram-filebot/internal/application"
	"github.com/Sanjay-off/telegram-filebot/internal/config"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"
)

var _ adapter.ResourceTransport = (*Bot)(nil)

// Bot wraps tgbotapi with concurrent update polling and implements the
// ResourceTransport the core delivers through.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.BotConfig
	facade  *application.BotFacade
	workers int
	log     *zerolog.Logger

	cancelPolling context.CancelFunc
}

func NewBot(cfg *config.BotConfig, logger *zerolog.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	blog := logger.With().Str("component", "TelegramBot").Logger()
	return &Bot{api: api, cfg: cfg, workers: workers, log: &blog}, nil
}

// SetFacade wires the application facade. Done after construction because
// the facade itself needs the bot as its transport.
func (b *Bot) SetFacade(f *application.BotFacade) { b.facade = f }

// ----- ResourceTransport -----

func (b *Bot) SendDocument(ctx context.Context, chatID int64, fileID, caption string) (adapter.DeliveredMessage, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption
	sent, err := b.api.Send(doc)
	if err != nil {
		return adapter.DeliveredMessage{}, err
	}
	return adapter.DeliveredMessage{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = inlineKeyboard(rows)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if rows != nil {
		kb := inlineKeyboard(rows)
		edit.ReplyMarkup = &kb
	}
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func inlineKeyboard(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			if btn.URL != "" {
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

// ----- Polling -----

// StartPolling pulls Telegram updates and fans them out to worker
// goroutines. Runs until ctx is cancelled.
func (b *Bot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					b.handleUpdate(ctx, update)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	for {
		select {
		case update := <-updates:
			select {
			case updateChan <- update:
			case <-ctx.Done():
				close(updateChan)
				wg.Wait()
				return ctx.Err()
			}
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		// A panic in one user's event must not take the process down.
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("recovered from update handler panic")
		}
	}()

	ctx = logging.WithTraceID(ctx, ulid.Make().String())

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	ctx = logging.WithTgID(ctx, userID)
	log := logging.With(ctx, b.log)

	var err error
	switch msg.Command() {
	case "start":
		err = b.facade.HandleStart(ctx, userID, chatID, strings.TrimSpace(msg.CommandArguments()))
	case "help":
		err = b.facade.HandleHelp(ctx, chatID)
	case "premium_status":
		err = b.facade.HandlePremiumStatus(ctx, userID, chatID)
	case "admin":
		err = b.facade.HandleAdminPanel(ctx, userID, chatID)
	case "stats":
		err = b.facade.HandleStats(ctx, userID, chatID)
	case "settings":
		err = b.facade.HandleSettingsView(ctx, userID, chatID)
	case "set":
		err = b.facade.HandleSet(ctx, userID, chatID, msg.CommandArguments())
	case "":
		// Non-command private message: template wizard input.
		if msg.Chat.IsPrivate() {
			input := usecase.TemplateInput{
				HasFile:       msg.Document != nil || msg.Video != nil || msg.Audio != nil,
				FileMessageID: msg.MessageID,
				Text:          msg.Text,
			}
			err = b.facade.HandleTemplateMessage(ctx, userID, chatID, input)
		}
	default:
		// unknown command: ignore
	}
	if err != nil {
		log.Error().Err(err).Str("command", msg.Command()).Msg("message handler error")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID
	ctx = logging.WithTgID(ctx, userID)
	log := logging.With(ctx, b.log)

	answer, showAlert, err := b.facade.HandleCallback(ctx, userID, chatID, cq.Message.MessageID, cq.Data)
	if err != nil {
		log.Error().Err(err).Str("data", cq.Data).Msg("callback handler error")
	}

	cb := tgbotapi.NewCallback(cq.ID, answer)
	cb.ShowAlert = showAlert
	if _, err := b.api.Request(cb); err != nil {
		log.Debug().Err(err).Msg("callback answer failed")
	}
}

// Stop cancels polling if it was started.
func (b *Bot) Stop() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}
