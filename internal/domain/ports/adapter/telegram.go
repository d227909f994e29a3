package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// DeliveredMessage references a message the transport has sent, so the
// lifecycle manager can delete it later.
type DeliveredMessage struct {
	ChatID    int64
	MessageID int
}

// ResourceTransport is the messaging-platform binding the core delivers
// through. Deletion failures are reported but callers are expected to
// swallow them (the user may have removed the message already).
type ResourceTransport interface {
	SendDocument(ctx context.Context, chatID int64, fileID, caption string) (DeliveredMessage, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]InlineButton) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
