// Package bot implements the trade lifecycle controller: it dispatches
// decoded chat events through the per-user conversation engine and
// drives the store and the journal channel.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Arabx-yung/trade-bot/internal/calendar"
	"github.com/Arabx-yung/trade-bot/internal/engine"
	"github.com/Arabx-yung/trade-bot/internal/logging"
	"github.com/Arabx-yung/trade-bot/internal/store"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
)

// Transport is the outbound chat surface the controller needs. The
// Telegram client satisfies it; tests substitute a fake.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb *telegram.InlineKeyboardMarkup) (*telegram.Message, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, kb *telegram.InlineKeyboardMarkup) error
	EditMessageReplyMarkup(ctx context.Context, chatID, messageID int64, kb *telegram.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
	SendMediaGroup(ctx context.Context, chatID int64, media []telegram.InputMediaPhoto) error
}

// Bot wires transport, store, sessions and the journal channel.
type Bot struct {
	transport Transport
	store     store.TradeStore
	sessions  *engine.Manager
	calendar  *calendar.Client
	logger    zerolog.Logger

	journalChatID int64
	loc           *time.Location
	now           func() time.Time

	mu     sync.Mutex
	queues map[int64]chan queued
	wg     sync.WaitGroup
}

type queued struct {
	event telegram.Event
	trace string
}

// New creates the controller.
func New(transport Transport, st store.TradeStore, cal *calendar.Client, journalChatID int64, loc *time.Location, logger zerolog.Logger) *Bot {
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		transport:     transport,
		store:         st,
		sessions:      engine.NewManager(),
		calendar:      cal,
		logger:        logger,
		journalChatID: journalChatID,
		loc:           loc,
		now:           time.Now,
		queues:        make(map[int64]chan queued),
	}
}

// HandleUpdate decodes one update and queues it on the owning user's
// serial queue. Events for different users run concurrently; events
// for one user run in arrival order.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	ev, ok := telegram.DecodeUpdate(u)
	if !ok {
		b.logger.Debug().Int64("update_id", u.UpdateID).Msg("ignoring unhandled update")
		return
	}

	item := queued{event: ev, trace: ulid.Make().String()}
	userID := ev.EventMeta().UserID

	b.mu.Lock()
	q, exists := b.queues[userID]
	if !exists {
		q = make(chan queued, 16)
		b.queues[userID] = q
		b.wg.Add(1)
		go b.worker(ctx, q)
	}
	b.mu.Unlock()

	select {
	case q <- item:
	case <-ctx.Done():
	}
}

func (b *Bot) worker(ctx context.Context, q chan queued) {
	defer b.wg.Done()
	for {
		select {
		case item, ok := <-q:
			if !ok {
				return
			}
			logger := logging.WithUpdate(logging.WithUser(b.logger, item.event.EventMeta().UserID), item.trace)
			b.handleEvent(ctx, item.event, logger)
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown drains the per-user queues and waits for in-flight events.
func (b *Bot) Shutdown() {
	b.mu.Lock()
	for _, q := range b.queues {
		close(q)
	}
	b.queues = make(map[int64]chan queued)
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Bot) handleEvent(ctx context.Context, ev telegram.Event, logger zerolog.Logger) {
	switch e := ev.(type) {
	case telegram.Command:
		logger.Info().Str("command", e.Name).Strs("args", e.Args).Msg("handling command")
		b.handleCommand(ctx, e, logger)
	case telegram.Callback:
		if err := b.transport.AnswerCallback(ctx, e.ID); err != nil {
			logger.Warn().Err(err).Msg("answering callback failed")
		}
		b.handleCallback(ctx, e, logger)
	case telegram.Text:
		b.handleText(ctx, e, logger)
	case telegram.Photo:
		b.handlePhoto(ctx, e, logger)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb telegram.Callback, logger zerolog.Logger) {
	switch cb.Action {
	case telegram.ActionMenuCheck, telegram.ActionMenuClose,
		telegram.ActionDirection, telegram.ActionToggle,
		telegram.ActionResetChecklist, telegram.ActionChecklistDone,
		telegram.ActionTakeTrade, telegram.ActionSkipTrade:
		b.handleOpenCallback(ctx, cb, logger)
	case telegram.ActionSelectClose:
		b.handleCloseSelection(ctx, cb, logger)
	case telegram.ActionDeletePending, telegram.ActionDeleteClosed:
		b.handleDeleteCallback(ctx, cb, logger)
	case telegram.ActionSummaryPeriod, telegram.ActionStatPeriod:
		b.handleSummaryCallback(ctx, cb, logger)
	}
}

// send is a convenience wrapper that logs transport failures.
func (b *Bot) send(ctx context.Context, chatID int64, text string, kb *telegram.InlineKeyboardMarkup, logger zerolog.Logger) {
	if _, err := b.transport.SendMessage(ctx, chatID, text, kb); err != nil {
		logger.Error().Err(err).Msg("sending message failed")
	}
}

// edit replaces a sent message, logging failures.
func (b *Bot) edit(ctx context.Context, chatID, messageID int64, text string, kb *telegram.InlineKeyboardMarkup, logger zerolog.Logger) {
	if err := b.transport.EditMessageText(ctx, chatID, messageID, text, kb); err != nil {
		logger.Error().Err(err).Msg("editing message failed")
	}
}

// resetWithNotice clears the user's session and tells them when that
// discarded a flow that had accumulated answers.
func (b *Bot) resetWithNotice(ctx context.Context, userID, chatID int64, logger zerolog.Logger) {
	prev := b.sessions.Reset(userID)
	if prev == nil {
		return
	}
	if flow := prev.FlowName(); flow != "" {
		b.send(ctx, chatID, "⚠️ Discarded your in-progress "+flow+".", nil, logger)
	}
}
