package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Arabx-yung/trade-bot/internal/checklist"
	"github.com/Arabx-yung/trade-bot/internal/engine"
	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/logging"
	"github.com/Arabx-yung/trade-bot/internal/models"
	"github.com/Arabx-yung/trade-bot/internal/store"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
)

const staleMenuText = "That menu has expired. Use /open to start again."

// beginOpenFlow starts the checklist flow, either with the symbol
// already known or by prompting for it.
func (b *Bot) beginOpenFlow(ctx context.Context, userID, chatID int64, symbol string, logger zerolog.Logger) {
	if symbol == "" {
		s, _ := b.sessions.Begin(userID, engine.StateAwaitSymbol)
		s.Open = &engine.OpenDraft{}
		b.send(ctx, chatID, "Enter the trading pair to check (e.g. EURUSD):", nil, logger)
		return
	}
	s, _ := b.sessions.Begin(userID, engine.StateAwaitDirection)
	s.Open = &engine.OpenDraft{Symbol: symbol}
	b.send(ctx, chatID, fmt.Sprintf("Pair set to %s. Choose direction:", symbol), directionKeyboard(), logger)
}

// handleOpenCallback covers the menu, direction, checklist and
// take/skip buttons.
func (b *Bot) handleOpenCallback(ctx context.Context, cb telegram.Callback, logger zerolog.Logger) {
	switch cb.Action {
	case telegram.ActionMenuCheck:
		s, _ := b.sessions.Begin(cb.UserID, engine.StateAwaitSymbol)
		s.Open = &engine.OpenDraft{}
		b.edit(ctx, cb.ChatID, cb.MessageID, "Enter the trading pair to check (e.g. EURUSD):", nil, logger)
		return

	case telegram.ActionMenuClose:
		b.sessions.Begin(cb.UserID, engine.StateAwaitCloseSymbol)
		b.edit(ctx, cb.ChatID, cb.MessageID,
			"Enter the trading pair to close (e.g. EURUSD) or use /close to list pending trades.", nil, logger)
		return
	}

	s := b.sessions.Get(cb.UserID)
	if s.Open == nil {
		b.edit(ctx, cb.ChatID, cb.MessageID, staleMenuText, nil, logger)
		return
	}

	switch cb.Action {
	case telegram.ActionDirection:
		side, err := models.ParseSide(cb.Arg)
		if err != nil {
			logger.Warn().Str("arg", cb.Arg).Msg("bad direction callback")
			return
		}
		s.Open.Side = side
		s.Open.Selection = checklist.Selection{}
		s.Open.MessageID = cb.MessageID
		s.State = engine.StateChecklist
		b.edit(ctx, cb.ChatID, cb.MessageID,
			fmt.Sprintf("%s %s | select checklist:", s.Open.Symbol, side),
			checklistKeyboard(s.Open.Selection), logger)

	case telegram.ActionToggle:
		if s.State != engine.StateChecklist {
			return
		}
		if _, ok := checklist.LabelFor(cb.Arg); !ok {
			logger.Warn().Str("key", cb.Arg).Msg("unknown checklist key")
			return
		}
		s.Open.Selection[cb.Arg] = !s.Open.Selection[cb.Arg]
		if err := b.transport.EditMessageReplyMarkup(ctx, cb.ChatID, cb.MessageID, checklistKeyboard(s.Open.Selection)); err != nil {
			logger.Error().Err(err).Msg("updating checklist keyboard failed")
		}

	case telegram.ActionResetChecklist:
		if s.State != engine.StateChecklist {
			return
		}
		s.Open.Selection = checklist.Selection{}
		if err := b.transport.EditMessageReplyMarkup(ctx, cb.ChatID, cb.MessageID, checklistKeyboard(s.Open.Selection)); err != nil {
			logger.Error().Err(err).Msg("updating checklist keyboard failed")
		}

	case telegram.ActionChecklistDone:
		if s.State != engine.StateChecklist {
			return
		}
		score, breakdown := checklist.Score(s.Open.Selection)
		s.Open.Score = score
		s.Open.Breakdown = breakdown
		s.State = engine.StateScoreShown
		b.edit(ctx, cb.ChatID, cb.MessageID,
			fmt.Sprintf("Checklist complete | Score: %d/%d", score, checklist.MaxScore),
			takeKeyboard(), logger)

	case telegram.ActionTakeTrade:
		if s.State != engine.StateScoreShown {
			return
		}
		s.State = engine.StateAwaitEntry
		b.edit(ctx, cb.ChatID, cb.MessageID, "Enter ENTRY price (number):", nil, logger)

	case telegram.ActionSkipTrade:
		if s.State != engine.StateScoreShown {
			return
		}
		b.sessions.Reset(cb.UserID)
		b.edit(ctx, cb.ChatID, cb.MessageID, "Trade discarded.", nil, logger)
	}
}

// handleOpenText advances the open flow on a free-text reply. It
// returns false when the session state is not part of the open chain.
func (b *Bot) handleOpenText(ctx context.Context, s *engine.Session, t telegram.Text, logger zerolog.Logger) bool {
	switch s.State {
	case engine.StateAwaitSymbol:
		symbol, verr := engine.ParseSymbol(t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid pair. "+verr.Hint+":", nil, logger)
			return true
		}
		s.Open.Symbol = symbol
		s.State = engine.StateAwaitDirection
		b.send(ctx, t.ChatID, fmt.Sprintf("Pair set to %s. Choose direction:", symbol), directionKeyboard(), logger)
		return true

	case engine.StateAwaitEntry:
		v, verr := engine.ParsePrice("entry", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid number for entry. Send ENTRY price (e.g. 1.12345).", nil, logger)
			return true
		}
		s.Open.Entry = v
		s.State = engine.StateAwaitLot
		b.send(ctx, t.ChatID, "Enter LOT size (e.g. 1.0):", nil, logger)
		return true

	case engine.StateAwaitLot:
		v, verr := engine.ParsePositive("lot", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid number for lot. Try again:", nil, logger)
			return true
		}
		s.Open.Lot = v
		s.State = engine.StateAwaitStop
		b.send(ctx, t.ChatID, "Enter SL price (or type NONE):", nil, logger)
		return true

	case engine.StateAwaitStop:
		v, verr := engine.ParseOptionalPrice("stop loss", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid SL. Try again or type NONE:", nil, logger)
			return true
		}
		s.Open.StopLoss = v
		s.State = engine.StateAwaitTarget
		b.send(ctx, t.ChatID, "Enter TP price (or type NONE):", nil, logger)
		return true

	case engine.StateAwaitTarget:
		v, verr := engine.ParseOptionalPrice("take profit", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid TP. Try again or type NONE:", nil, logger)
			return true
		}
		s.Open.TakeProfit = v
		b.savePending(ctx, t.Meta, s.Open, logger)
		b.sessions.Reset(t.UserID)
		return true
	}
	return false
}

// savePending persists the finished draft. A trade id collision within
// the same second is recovered by suffixing a counter.
func (b *Bot) savePending(ctx context.Context, meta telegram.Meta, draft *engine.OpenDraft, logger zerolog.Logger) {
	now := b.now().In(b.loc)
	trade := &models.PendingTrade{
		TradeID:    models.NewTradeID(draft.Symbol, now),
		UserID:     meta.UserID,
		Username:   meta.Username,
		Symbol:     draft.Symbol,
		Side:       draft.Side,
		Entry:      draft.Entry,
		StopLoss:   draft.StopLoss,
		TakeProfit: draft.TakeProfit,
		Lot:        draft.Lot,
		OpenedAt:   now,
		Score:      draft.Score,
		Breakdown:  draft.Breakdown,
	}

	sctx, cancel := store.WithTimeout(ctx)
	defer cancel()

	baseID := trade.TradeID
	var err error
	for attempt := 2; ; attempt++ {
		err = b.store.InsertPending(sctx, trade)
		if !errs.Is(err, errs.ErrDuplicateTradeID) {
			break
		}
		trade.TradeID = baseID + "-" + strconv.Itoa(attempt)
	}
	if err != nil {
		logger.Error().Err(err).Str("trade_id", trade.TradeID).Msg("saving pending trade failed")
		b.send(ctx, meta.ChatID, "❌ Failed to save the trade. Nothing was stored.", nil, logger)
		return
	}

	tlog := logging.WithTradeID(logger, trade.TradeID)
	tlog.Info().Str("symbol", trade.Symbol).Int("score", trade.Score).Msg("pending trade saved")
	b.send(ctx, meta.ChatID,
		fmt.Sprintf("✅ Trade saved as PENDING: %s %s | ID: %s", trade.Symbol, trade.Side, trade.TradeID),
		nil, logger)
}
