// Package sched owns the delayed-deletion lifecycle of delivered files.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/metrics"
	"github.com/Sanjay-off/telegram-filebot/internal/token"

	"github.com/rs/zerolog"
)

// Deleter schedules the removal of a delivered file message and the posting
// of its re-fetch successor. Each schedule is a fire-and-forget goroutine
// detached from the event that delivered the file: it outlives the event and
// has no cancellation trigger. In-process timers are lost on restart.
type Deleter struct {
	transport adapter.ResourceTransport
	log       *zerolog.Logger

	wg sync.WaitGroup
	// opTimeout bounds each transport call made after the delay elapses.
	opTimeout time.Duration
}

func NewDeleter(transport adapter.ResourceTransport, logger *zerolog.Logger) *Deleter {
	dlog := logger.With().Str("component", "Deleter").Logger()
	return &Deleter{
		transport: transport,
		log:       &dlog,
		opTimeout: 30 * time.Second,
	}
}

// Schedule arms the delayed removal of msg and the successor notification
// carrying a re-fetch button for fileCode. A non-positive delay schedules
// nothing: the file persists indefinitely. The call never blocks.
func (d *Deleter) Schedule(msg adapter.DeliveredMessage, delay time.Duration, fileCode string) {
	if delay <= 0 {
		return
	}
	metrics.IncDeletionScheduled()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		time.Sleep(delay)
		d.run(msg, fileCode)
	}()
}

func (d *Deleter) run(msg adapter.DeliveredMessage, fileCode string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opTimeout)
	defer cancel()

	// Deletion failure is swallowed: the user may have removed the message
	// themselves. The successor is posted either way.
	if err := d.transport.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		d.log.Debug().Err(err).Int64("chat_id", msg.ChatID).Int("message_id", msg.MessageID).Msg("delayed delete failed")
		metrics.IncDeletionExecuted(false)
	} else {
		metrics.IncDeletionExecuted(true)
	}

	rows := [][]adapter.InlineButton{{{
		Text: "Click Here",
		Data: token.Callback(token.CallbackRefile, token.EncodeFileCode(fileCode)),
	}}}
	err := d.transport.SendButtons(ctx, msg.ChatID,
		"Previous file message has been deleted.\nTap the button below to get it again.", rows)
	if err != nil {
		d.log.Warn().Err(err).Int64("chat_id", msg.ChatID).Msg("post re-fetch notice")
	}
}

// Wait blocks until every armed deletion has run. Test helper; shutdown
// uses WaitTimeout because armed timers can be minutes away.
func (d *Deleter) Wait() { d.wg.Wait() }

// WaitTimeout waits for armed deletions up to the timeout and reports
// whether they all finished. Timers still pending when it returns are
// abandoned with the process, like any restart.
func (d *Deleter) WaitTimeout(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
