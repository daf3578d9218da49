package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Arabx-yung/trade-bot/internal/engine"
	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/logging"
	"github.com/Arabx-yung/trade-bot/internal/models"
	"github.com/Arabx-yung/trade-bot/internal/store"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
	"github.com/Arabx-yung/trade-bot/pkg/utils"
)

const maxClosePhotos = 10

// startClose snapshots the pending trade into a fresh session and asks
// for the exit price.
func (b *Bot) startClose(ctx context.Context, userID, chatID int64, pending *models.PendingTrade, logger zerolog.Logger) {
	s, _ := b.sessions.Begin(userID, engine.StateAwaitExit)
	s.Close = &engine.CloseDraft{Pending: pending}
	b.send(ctx, chatID,
		fmt.Sprintf("Closing trade %s %s (Entry: %s).\nEnter EXIT price:",
			pending.Symbol, pending.Side, utils.FormatPrice(pending.Entry)),
		nil, logger)
}

// handleCloseSelection resolves a close-list button press.
func (b *Bot) handleCloseSelection(ctx context.Context, cb telegram.Callback, logger zerolog.Logger) {
	pending, err := b.store.GetPendingByID(ctx, cb.Arg)
	if err != nil {
		if errs.Is(err, errs.ErrTradeNotFound) {
			b.edit(ctx, cb.ChatID, cb.MessageID, "That trade was not found (it might have been closed).", nil, logger)
			return
		}
		logger.Error().Err(err).Str("trade_id", cb.Arg).Msg("loading pending trade failed")
		b.edit(ctx, cb.ChatID, cb.MessageID, "❌ Could not load that trade. Try again.", nil, logger)
		return
	}
	b.edit(ctx, cb.ChatID, cb.MessageID,
		fmt.Sprintf("Selected %s %s | ID: %s", pending.Symbol, pending.Side, pending.TradeID), nil, logger)
	b.startClose(ctx, cb.UserID, cb.ChatID, pending, logger)
}

// promptOpenTime asks for the open timestamp, offering the stored one.
func (b *Bot) promptOpenTime(ctx context.Context, s *engine.Session, chatID int64, defaultLot bool, logger zerolog.Logger) {
	s.State = engine.StateAwaitOpenTime
	stored := s.Close.Pending.OpenedAt.Format(engine.TimeLayout)
	var prefix string
	if defaultLot {
		prefix = fmt.Sprintf("Default lot from pending: %s\n", utils.FormatLot(s.Close.Lot))
	}
	b.send(ctx, chatID,
		prefix+fmt.Sprintf("Enter OPEN datetime for the trade in format '%s'\n(or type SAME to use stored value: %s)",
			engine.TimeLayout, stored),
		nil, logger)
}

// handleCloseText advances the close flow on a free-text reply. It
// returns false when the session state is not part of the close chain.
func (b *Bot) handleCloseText(ctx context.Context, s *engine.Session, t telegram.Text, logger zerolog.Logger) bool {
	switch s.State {
	case engine.StateAwaitCloseSymbol:
		symbol, verr := engine.ParseSymbol(t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid pair. "+verr.Hint+":", nil, logger)
			return true
		}
		pending, err := b.store.LatestPendingBySymbol(ctx, symbol)
		if err != nil {
			if errs.Is(err, errs.ErrTradeNotFound) {
				b.send(ctx, t.ChatID, fmt.Sprintf("No pending trade found for %s.", symbol), nil, logger)
			} else {
				logger.Error().Err(err).Str("symbol", symbol).Msg("loading pending trade failed")
				b.send(ctx, t.ChatID, "❌ Could not look up pending trades. Try again.", nil, logger)
			}
			b.sessions.Reset(t.UserID)
			return true
		}
		b.startClose(ctx, t.UserID, t.ChatID, pending, logger)
		return true

	case engine.StateAwaitExit:
		v, verr := engine.ParsePrice("exit", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid exit price. Try again (numeric).", nil, logger)
			return true
		}
		s.Close.Exit = v
		if s.Close.Pending.Lot > 0 {
			s.Close.Lot = s.Close.Pending.Lot
			b.promptOpenTime(ctx, s, t.ChatID, true, logger)
		} else {
			s.State = engine.StateAwaitCloseLot
			b.send(ctx, t.ChatID, "Enter LOT size:", nil, logger)
		}
		return true

	case engine.StateAwaitCloseLot:
		v, verr := engine.ParsePositive("lot", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid lot. Try again:", nil, logger)
			return true
		}
		s.Close.Lot = v
		b.promptOpenTime(ctx, s, t.ChatID, false, logger)
		return true

	case engine.StateAwaitOpenTime:
		var openedAt time.Time
		if engine.IsSkipToken(t.Text, engine.TokenSame) {
			openedAt = s.Close.Pending.OpenedAt
			if openedAt.IsZero() {
				openedAt = b.now().In(b.loc)
			}
		} else {
			v, verr := engine.ParseTimestamp("open time", t.Text, b.loc)
			if verr != nil {
				b.send(ctx, t.ChatID,
					fmt.Sprintf("Bad datetime. Use format: %s (example: 2025-09-15 09:30)", engine.TimeLayout),
					nil, logger)
				return true
			}
			openedAt = v
		}
		s.Close.OpenedAt = &openedAt
		s.State = engine.StateAwaitCloseTime
		b.send(ctx, t.ChatID, fmt.Sprintf("Enter CLOSE datetime (format %s):", engine.TimeLayout), nil, logger)
		return true

	case engine.StateAwaitCloseTime:
		v, verr := engine.ParseTimestamp("close time", t.Text, b.loc)
		if verr != nil {
			b.send(ctx, t.ChatID,
				fmt.Sprintf("Bad datetime. Use format: %s (example: 2025-09-15 12:45)", engine.TimeLayout),
				nil, logger)
			return true
		}
		s.Close.ClosedAt = &v
		s.State = engine.StateAwaitReason
		b.send(ctx, t.ChatID, "Enter reason for closing (short text):", nil, logger)
		return true

	case engine.StateAwaitReason:
		s.Close.Reason = t.Text
		s.State = engine.StateAwaitResult
		b.send(ctx, t.ChatID, "Enter result (WIN / LOSS / BE):", nil, logger)
		return true

	case engine.StateAwaitResult:
		result, err := models.ParseResult(t.Text)
		if err != nil {
			b.send(ctx, t.ChatID, "Invalid result. Enter WIN, LOSS or BE:", nil, logger)
			return true
		}
		s.Close.Result = result
		s.State = engine.StateAwaitPnL
		b.send(ctx, t.ChatID, "Enter PnL (number, e.g. 123.45, -50 or 2.5%):", nil, logger)
		return true

	case engine.StateAwaitPnL:
		pnl, err := models.ParsePnL(t.Text)
		if err != nil {
			b.send(ctx, t.ChatID, "Invalid PnL. Enter a number like 123.45, -50 or 2.5%:", nil, logger)
			return true
		}
		s.Close.PnL = pnl
		s.Close.Photos = []string{}
		s.State = engine.StateCollectPhotos
		b.send(ctx, t.ChatID,
			"Send 1-10 screenshots (photos). When finished type DONE or send DONE as caption on last photo.",
			nil, logger)
		return true

	case engine.StateCollectPhotos:
		if engine.IsSkipToken(t.Text, engine.TokenDone) {
			b.finalizeClose(ctx, t.Meta, s, logger)
			return true
		}
		b.send(ctx, t.ChatID, "Send a photo, or type DONE to finalize.", nil, logger)
		return true
	}
	return false
}

// handlePhoto collects close-flow screenshots, enforcing the cap.
func (b *Bot) handlePhoto(ctx context.Context, p telegram.Photo, logger zerolog.Logger) {
	s := b.sessions.Get(p.UserID)
	if s.State != engine.StateCollectPhotos || s.Close == nil {
		b.send(ctx, p.ChatID, "I wasn't expecting a photo now. Use /close to close a pending trade.", nil, logger)
		return
	}
	if len(s.Close.Photos) >= maxClosePhotos {
		logger.Warn().Err(errs.ErrPhotoLimit).Str("trade_id", s.Close.Pending.TradeID).Msg("rejecting extra screenshot")
		b.send(ctx, p.ChatID,
			fmt.Sprintf("❌ Photo limit reached (%d). Type DONE to finalize.", maxClosePhotos), nil, logger)
		return
	}
	s.Close.Photos = append(s.Close.Photos, p.FileID)
	b.send(ctx, p.ChatID,
		fmt.Sprintf("📸 Screenshot saved (%d). Send more or type DONE.", len(s.Close.Photos)), nil, logger)
	if engine.IsSkipToken(p.Caption, engine.TokenDone) {
		b.finalizeClose(ctx, p.Meta, s, logger)
	}
}

// finalizeClose builds the immutable closed record, promotes it
// atomically and posts the journal entry. The session is cleared no
// matter how the attempt ends.
func (b *Bot) finalizeClose(ctx context.Context, meta telegram.Meta, s *engine.Session, logger zerolog.Logger) {
	defer b.sessions.Reset(meta.UserID)

	draft := s.Close
	pending := draft.Pending

	openedAt := pending.OpenedAt
	if draft.OpenedAt != nil {
		openedAt = *draft.OpenedAt
	}
	closedAt := b.now().In(b.loc)
	if draft.ClosedAt != nil {
		closedAt = *draft.ClosedAt
	}
	lot := draft.Lot
	if lot == 0 {
		lot = pending.Lot
	}

	closed := &models.ClosedTrade{
		PendingTrade: *pending,
		Exit:         draft.Exit,
		ClosedAt:     closedAt,
		Duration:     models.FormatDuration(openedAt, closedAt),
		Reason:       draft.Reason,
		Result:       draft.Result,
		PnL:          draft.PnL,
		Photos:       draft.Photos,
	}
	closed.OpenedAt = openedAt
	closed.Lot = lot

	sctx, cancel := store.WithTimeout(ctx)
	defer cancel()

	tlog := logging.WithTradeID(logger, closed.TradeID)
	if err := b.store.MovePendingToClosed(sctx, pending.TradeID, closed); err != nil {
		if errs.Is(err, errs.ErrTradeNotFound) {
			b.send(ctx, meta.ChatID,
				"❌ That trade was already closed or deleted. Nothing was saved.", nil, logger)
			return
		}
		tlog.Error().Err(err).Msg("promoting pending trade failed")
		b.send(ctx, meta.ChatID, "❌ Failed to save the closed trade. Nothing was changed.", nil, logger)
		return
	}
	tlog.Info().Str("result", string(closed.Result)).Str("duration", closed.Duration).Msg("trade closed")

	// One publish attempt. Failure is partial success: the record is
	// already promoted and stays promoted.
	if err := b.publishJournal(ctx, closed); err != nil {
		tlog.Error().Err(errs.NewPublishError(b.journalChatID, err)).Msg("journal publish failed")
		b.send(ctx, meta.ChatID,
			"✅ Trade closed and saved, but posting to the journal channel failed (check bot permissions).",
			nil, logger)
		return
	}
	b.send(ctx, meta.ChatID, "✅ Trade closed, saved, and journal posted.", nil, logger)
}

// publishJournal posts the closed trade to the journal channel: an
// album when photos exist (caption on the first), a single photo for
// one screenshot, plain text otherwise.
func (b *Bot) publishJournal(ctx context.Context, closed *models.ClosedTrade) error {
	caption := journalCaption(closed)
	if len(closed.Photos) == 0 {
		_, err := b.transport.SendMessage(ctx, b.journalChatID, caption, nil)
		return err
	}
	if len(closed.Photos) == 1 {
		return b.transport.SendPhoto(ctx, b.journalChatID, closed.Photos[0], caption)
	}
	media := make([]telegram.InputMediaPhoto, 0, len(closed.Photos))
	for i, fid := range closed.Photos {
		c := ""
		if i == 0 {
			c = caption
		}
		media = append(media, telegram.NewMediaPhoto(fid, c))
	}
	return b.transport.SendMediaGroup(ctx, b.journalChatID, media)
}
