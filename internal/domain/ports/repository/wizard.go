package repository

import "context"

// Template wizard steps, in order.
const (
	WizardStepAwaitFile        = "await_file"
	WizardStepAwaitPostNumber  = "await_post_number"
	WizardStepAwaitDescription = "await_description"
)

// WizardState is the per-user finite-state-machine value of the template
// wizard. It lives in a keyed store with a TTL so abandoned sessions expire.
type WizardState struct {
	Step          string `json:"step"`
	FileMessageID int    `json:"file_message_id"`
	PostNumber    string `json:"post_number"`
	Description   string `json:"description"`
}

type WizardStateRepository interface {
	GetState(ctx context.Context, tgID int64) (*WizardState, error)
	SetState(ctx context.Context, tgID int64, state *WizardState) error
	ClearState(ctx context.Context, tgID int64) error
}
