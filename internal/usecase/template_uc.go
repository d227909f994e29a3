package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"
	"github.com/Sanjay-off/telegram-filebot/internal/token"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ TemplateUseCase = (*templateUC)(nil)

// TemplateUseCase drives the per-user template wizard: file, post number,
// description, then the generated public post with its deep link. The state
// machine value lives in an expiring keyed store, so abandoned sessions
// vanish on their own.
type TemplateUseCase interface {
	// Advance feeds one incoming message into the wizard and returns the
	// reply to show. done is true when the template was produced (or the
	// session reset) and the state is cleared.
	Advance(ctx context.Context, tgID int64, msg TemplateInput) (reply string, done bool, err error)
}

// TemplateInput is the part of an incoming message the wizard cares about.
type TemplateInput struct {
	HasFile       bool
	FileMessageID int
	Text          string
}

type templateUC struct {
	states      repository.WizardStateRepository
	botUsername string
	log         *zerolog.Logger
}

func NewTemplateUseCase(states repository.WizardStateRepository, botUsername string, logger *zerolog.Logger) *templateUC {
	return &templateUC{states: states, botUsername: botUsername, log: logger}
}

func (u *templateUC) Advance(ctx context.Context, tgID int64, msg TemplateInput) (string, bool, error) {
	defer logging.TraceDuration(u.log, "TemplateUC.Advance")()

	state, err := u.states.GetState(ctx, tgID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", false, err
	}

	// No session yet: expect a file.
	if state == nil {
		if !msg.HasFile {
			return "Please send a file first.", false, nil
		}
		state = &repository.WizardState{
			Step:          repository.WizardStepAwaitPostNumber,
			FileMessageID: msg.FileMessageID,
		}
		if err := u.states.SetState(ctx, tgID, state); err != nil {
			return "", false, err
		}
		return "Type the post number (example: 23):", false, nil
	}

	switch state.Step {
	case repository.WizardStepAwaitPostNumber:
		num := strings.TrimSpace(msg.Text)
		if !isDigits(num) {
			return "Post number must be digits only. Try again:", false, nil
		}
		state.PostNumber = num
		state.Step = repository.WizardStepAwaitDescription
		if err := u.states.SetState(ctx, tgID, state); err != nil {
			return "", false, err
		}
		return "Now type the description:", false, nil

	case repository.WizardStepAwaitDescription:
		state.Description = strings.TrimSpace(msg.Text)
		reply := u.renderTemplate(state)
		if err := u.states.ClearState(ctx, tgID); err != nil {
			u.log.Warn().Err(err).Int64("tg_id", tgID).Msg("clear wizard state")
		}
		return reply, true, nil

	default:
		// Unknown step value, e.g. after a schema change: start over.
		if err := u.states.ClearState(ctx, tgID); err != nil {
			return "", false, err
		}
		return "Session reset. Please send a file first.", true, nil
	}
}

func (u *templateUC) renderTemplate(state *repository.WizardState) string {
	deepLink := fmt.Sprintf("https://t.me/%s?start=%s", u.botUsername, token.EncodeFileCode(state.PostNumber))
	lines := []string{
		fmt.Sprintf("POST - %s", state.PostNumber),
		"",
		fmt.Sprintf("Description: %s", state.Description),
		"",
		fmt.Sprintf("[DOWNLOAD](%s)", deepLink),
	}
	return strings.Join(lines, "\n")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
