//go:build !integration

package sched_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/sched"
	"github.com/Sanjay-off/telegram-filebot/internal/token"

	"github.com/rs/zerolog"
)

type recordingTransport struct {
	mu        sync.Mutex
	deleted   []adapter.DeliveredMessage
	notices   []string
	rows      [][][]adapter.InlineButton
	deleteErr error
}

func (r *recordingTransport) SendDocument(ctx context.Context, chatID int64, fileID, caption string) (adapter.DeliveredMessage, error) {
	return adapter.DeliveredMessage{ChatID: chatID, MessageID: 1}, nil
}

func (r *recordingTransport) SendMessage(ctx context.Context, chatID int64, text string) error {
	return nil
}

func (r *recordingTransport) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
	r.rows = append(r.rows, rows)
	return nil
}

func (r *recordingTransport) EditMessage(ctx context.Context, chatID int64, messageID int, text string, rows [][]adapter.InlineButton) error {
	return nil
}

func (r *recordingTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, adapter.DeliveredMessage{ChatID: chatID, MessageID: messageID})
	return nil
}

func newDeleter(tr adapter.ResourceTransport) *sched.Deleter {
	l := zerolog.Nop()
	return sched.NewDeleter(tr, &l)
}

func TestDeleter_DeletesAndPostsSuccessor(t *testing.T) {
	tr := &recordingTransport{}
	d := newDeleter(tr)

	msg := adapter.DeliveredMessage{ChatID: 42, MessageID: 100}
	d.Schedule(msg, 10*time.Millisecond, "23")
	d.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.deleted) != 1 || tr.deleted[0] != msg {
		t.Fatalf("deleted = %v, want [%v]", tr.deleted, msg)
	}
	if len(tr.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(tr.notices))
	}
	if !strings.Contains(tr.notices[0], "deleted") {
		t.Fatalf("notice = %q", tr.notices[0])
	}
	btn := tr.rows[0][0][0]
	wantData := token.Callback(token.CallbackRefile, token.EncodeFileCode("23"))
	if btn.Data != wantData {
		t.Fatalf("button data = %q, want %q", btn.Data, wantData)
	}
}

func TestDeleter_ZeroDelaySchedulesNothing(t *testing.T) {
	tr := &recordingTransport{}
	d := newDeleter(tr)

	d.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 100}, 0, "23")
	d.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 101}, -time.Minute, "23")
	d.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.deleted) != 0 || len(tr.notices) != 0 {
		t.Fatalf("deleted %d, notices %d, want both 0", len(tr.deleted), len(tr.notices))
	}
}

func TestDeleter_DeleteFailureStillPostsSuccessor(t *testing.T) {
	tr := &recordingTransport{deleteErr: errors.New("message to delete not found")}
	d := newDeleter(tr)

	d.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 100}, 10*time.Millisecond, "23")
	d.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.notices) != 1 {
		t.Fatalf("notices = %d, want successor despite delete failure", len(tr.notices))
	}
}

func TestDeleter_WaitTimeout(t *testing.T) {
	tr := &recordingTransport{}
	d := newDeleter(tr)

	d.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 100}, time.Minute, "23")
	if d.WaitTimeout(20 * time.Millisecond) {
		t.Fatal("WaitTimeout reported done with a minute-long timer armed")
	}

	quick := newDeleter(tr)
	quick.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 101}, time.Millisecond, "23")
	if !quick.WaitTimeout(time.Second) {
		t.Fatal("WaitTimeout timed out on an imminent deletion")
	}
}

func TestDeleter_ManyScheduled(t *testing.T) {
	tr := &recordingTransport{}
	d := newDeleter(tr)

	for i := 0; i < 5; i++ {
		d.Schedule(adapter.DeliveredMessage{ChatID: 42, MessageID: 100 + i}, time.Millisecond, "23")
	}
	d.Wait()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.deleted) != 5 {
		t.Fatalf("deleted = %d, want 5", len(tr.deleted))
	}
}
