package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Arabx-yung/trade-bot/internal/calendar"
	"github.com/Arabx-yung/trade-bot/internal/engine"
	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/report"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
	"github.com/Arabx-yung/trade-bot/pkg/utils"
)

const closedListLimit = 100

const helpText = "📒 Trade journal bot.\n\n" +
	"/open <symbol> start the pre-trade checklist\n" +
	"/close [symbol] close a pending trade\n" +
	"/pending list open positions\n" +
	"/closed list recent closed trades\n" +
	"/summary [week|month] aggregate results\n" +
	"/stat [week|month] condensed win rate\n" +
	"/delete <pending|closed> remove a record\n" +
	"/risk <balance> <risk%> <sl pips> position sizing\n" +
	"/calendar today's economic releases"

// handleCommand routes a slash command. Every command abandons
// whatever flow was active first.
func (b *Bot) handleCommand(ctx context.Context, cmd telegram.Command, logger zerolog.Logger) {
	b.resetWithNotice(ctx, cmd.UserID, cmd.ChatID, logger)

	switch cmd.Name {
	case "start", "help":
		b.send(ctx, cmd.ChatID, helpText, menuKeyboard(), logger)

	case "open":
		var symbol string
		if len(cmd.Args) > 0 {
			s, verr := engine.ParseSymbol(cmd.Args[0])
			if verr != nil {
				b.send(ctx, cmd.ChatID, "Invalid pair. "+verr.Hint+".", nil, logger)
				return
			}
			symbol = s
		}
		b.beginOpenFlow(ctx, cmd.UserID, cmd.ChatID, symbol, logger)

	case "close":
		b.commandClose(ctx, cmd, logger)

	case "pending":
		trades, err := b.store.ListPending(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("listing pending trades failed")
			b.send(ctx, cmd.ChatID, "❌ Could not read pending trades.", nil, logger)
			return
		}
		if len(trades) == 0 {
			b.send(ctx, cmd.ChatID, "No pending trades.", nil, logger)
			return
		}
		b.send(ctx, cmd.ChatID, renderPendingList(trades), nil, logger)

	case "closed":
		trades, err := b.store.ListClosed(ctx, closedListLimit)
		if err != nil {
			logger.Error().Err(err).Msg("listing closed trades failed")
			b.send(ctx, cmd.ChatID, "❌ Could not read closed trades.", nil, logger)
			return
		}
		if len(trades) == 0 {
			b.send(ctx, cmd.ChatID, "No closed trades yet.", nil, logger)
			return
		}
		b.send(ctx, cmd.ChatID, renderClosedList(trades), nil, logger)

	case "summary":
		b.commandSummary(ctx, cmd, false, logger)

	case "stat":
		b.commandSummary(ctx, cmd, true, logger)

	case "delete":
		b.commandDelete(ctx, cmd, logger)

	case "risk":
		b.commandRisk(ctx, cmd, logger)

	case "calendar":
		b.commandCalendar(ctx, cmd, logger)

	default:
		b.send(ctx, cmd.ChatID, "Unknown command. Send /start for the command list.", nil, logger)
	}
}

func (b *Bot) commandClose(ctx context.Context, cmd telegram.Command, logger zerolog.Logger) {
	if len(cmd.Args) == 0 {
		trades, err := b.store.ListPending(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("listing pending trades failed")
			b.send(ctx, cmd.ChatID, "❌ Could not read pending trades.", nil, logger)
			return
		}
		if len(trades) == 0 {
			logger.Debug().Err(errs.ErrNoPendingTrades).Msg("close requested with empty book")
			b.send(ctx, cmd.ChatID, "No pending trades to close.", nil, logger)
			return
		}
		b.send(ctx, cmd.ChatID, "Select a pending trade to close:",
			pendingSelectionKeyboard(trades, telegram.ActionSelectClose), logger)
		return
	}

	symbol, verr := engine.ParseSymbol(cmd.Args[0])
	if verr != nil {
		b.send(ctx, cmd.ChatID, "Invalid pair. "+verr.Hint+".", nil, logger)
		return
	}
	pending, err := b.store.LatestPendingBySymbol(ctx, symbol)
	if err != nil {
		if errs.Is(err, errs.ErrTradeNotFound) {
			b.send(ctx, cmd.ChatID,
				fmt.Sprintf("❌ No pending trade found for %s. Use /pending to see active trades.", symbol),
				nil, logger)
			return
		}
		logger.Error().Err(err).Str("symbol", symbol).Msg("loading pending trade failed")
		b.send(ctx, cmd.ChatID, "❌ Could not look up pending trades.", nil, logger)
		return
	}
	b.startClose(ctx, cmd.UserID, cmd.ChatID, pending, logger)
}

func (b *Bot) commandSummary(ctx context.Context, cmd telegram.Command, condensed bool, logger zerolog.Logger) {
	arg := ""
	if len(cmd.Args) > 0 {
		arg = cmd.Args[0]
	}
	if arg == "" {
		action := telegram.ActionSummaryPeriod
		if condensed {
			action = telegram.ActionStatPeriod
		}
		b.send(ctx, cmd.ChatID, "Pick a period:", periodKeyboard(action), logger)
		return
	}
	period, err := report.ParsePeriod(arg)
	if err != nil {
		b.send(ctx, cmd.ChatID, "Use week, month or all.", nil, logger)
		return
	}
	summary, rerr := b.summarize(ctx, period)
	if rerr != nil {
		logger.Error().Err(rerr).Msg("summarizing closed trades failed")
		b.send(ctx, cmd.ChatID, "❌ Could not read closed trades.", nil, logger)
		return
	}
	if condensed {
		b.send(ctx, cmd.ChatID, summary.RenderStat(), nil, logger)
		return
	}
	b.send(ctx, cmd.ChatID, summary.Render(), nil, logger)
}

func (b *Bot) summarize(ctx context.Context, period report.Period) (report.Summary, error) {
	trades, err := b.store.ListClosed(ctx, 0)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(trades, period, b.now().In(b.loc)), nil
}

// handleSummaryCallback answers a period button by editing the prompt
// in place.
func (b *Bot) handleSummaryCallback(ctx context.Context, cb telegram.Callback, logger zerolog.Logger) {
	period, err := report.ParsePeriod(cb.Arg)
	if err != nil {
		logger.Warn().Str("arg", cb.Arg).Msg("bad period callback")
		return
	}
	summary, rerr := b.summarize(ctx, period)
	if rerr != nil {
		logger.Error().Err(rerr).Msg("summarizing closed trades failed")
		b.edit(ctx, cb.ChatID, cb.MessageID, "❌ Could not read closed trades.", nil, logger)
		return
	}
	if cb.Action == telegram.ActionStatPeriod {
		b.edit(ctx, cb.ChatID, cb.MessageID, summary.RenderStat(), nil, logger)
		return
	}
	b.edit(ctx, cb.ChatID, cb.MessageID, summary.Render(), nil, logger)
}

func (b *Bot) commandDelete(ctx context.Context, cmd telegram.Command, logger zerolog.Logger) {
	if len(cmd.Args) == 0 {
		b.send(ctx, cmd.ChatID, "Usage: /delete pending OR /delete closed", nil, logger)
		return
	}
	switch strings.ToLower(cmd.Args[0]) {
	case "pending":
		trades, err := b.store.ListPending(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("listing pending trades failed")
			b.send(ctx, cmd.ChatID, "❌ Could not read pending trades.", nil, logger)
			return
		}
		if len(trades) == 0 {
			b.send(ctx, cmd.ChatID, "No pending trades to delete.", nil, logger)
			return
		}
		b.send(ctx, cmd.ChatID, "Select a pending trade to delete:",
			pendingSelectionKeyboard(trades, telegram.ActionDeletePending), logger)

	case "closed":
		trades, err := b.store.ListClosed(ctx, 50)
		if err != nil {
			logger.Error().Err(err).Msg("listing closed trades failed")
			b.send(ctx, cmd.ChatID, "❌ Could not read closed trades.", nil, logger)
			return
		}
		if len(trades) == 0 {
			b.send(ctx, cmd.ChatID, "No closed trades to delete.", nil, logger)
			return
		}
		b.send(ctx, cmd.ChatID, "Select a closed trade to delete:", closedSelectionKeyboard(trades), logger)

	default:
		b.send(ctx, cmd.ChatID, "Use /delete pending OR /delete closed", nil, logger)
	}
}

func (b *Bot) handleDeleteCallback(ctx context.Context, cb telegram.Callback, logger zerolog.Logger) {
	var (
		removed bool
		err     error
		kind    string
	)
	if cb.Action == telegram.ActionDeletePending {
		kind = "Pending"
		removed, err = b.store.DeletePending(ctx, cb.Arg)
	} else {
		kind = "Closed"
		removed, err = b.store.DeleteClosed(ctx, cb.Arg)
	}
	if err != nil {
		logger.Error().Err(err).Str("trade_id", cb.Arg).Msg("deleting trade failed")
		b.edit(ctx, cb.ChatID, cb.MessageID, "❌ Delete failed. The record is unchanged.", nil, logger)
		return
	}
	if !removed {
		b.edit(ctx, cb.ChatID, cb.MessageID,
			fmt.Sprintf("%s trade %s was already gone.", kind, cb.Arg), nil, logger)
		return
	}
	logger.Info().Str("trade_id", cb.Arg).Msg("trade deleted")
	b.edit(ctx, cb.ChatID, cb.MessageID,
		fmt.Sprintf("✅ %s trade %s deleted.", kind, cb.Arg), nil, logger)
}

func (b *Bot) commandRisk(ctx context.Context, cmd telegram.Command, logger zerolog.Logger) {
	if len(cmd.Args) < 3 {
		s, _ := b.sessions.Begin(cmd.UserID, engine.StateAwaitRiskBalance)
		s.Risk = &engine.RiskDraft{}
		b.send(ctx, cmd.ChatID, "Enter account BALANCE:", nil, logger)
		return
	}

	balance, verr := engine.ParsePositive("balance", cmd.Args[0])
	if verr == nil {
		var pct float64
		pct, verr = engine.ParsePositive("risk percent", strings.TrimSuffix(cmd.Args[1], "%"))
		if verr == nil {
			var pips float64
			pips, verr = engine.ParsePositive("stop pips", cmd.Args[2])
			if verr == nil {
				b.sendRiskResult(ctx, cmd.ChatID, balance, pct, pips, logger)
				return
			}
		}
	}
	b.send(ctx, cmd.ChatID, "Usage: /risk <balance> <risk%> <sl pips>  e.g. /risk 10000 1 25", nil, logger)
}

func (b *Bot) sendRiskResult(ctx context.Context, chatID int64, balance, pct, pips float64, logger zerolog.Logger) {
	riskAmount, lot := engine.ComputeLotSize(balance, pct, pips)
	b.send(ctx, chatID, fmt.Sprintf(
		"💡 Risking %s (%s of %s) over %s pips:\n📏 Lot size: %s",
		utils.FormatPrice(riskAmount), utils.FormatPercent(pct), utils.FormatPrice(balance),
		utils.FormatPrice(pips), utils.FormatLot(lot)), nil, logger)
}

// handleRiskText advances the interactive risk calculator.
func (b *Bot) handleRiskText(ctx context.Context, s *engine.Session, t telegram.Text, logger zerolog.Logger) bool {
	switch s.State {
	case engine.StateAwaitRiskBalance:
		v, verr := engine.ParsePositive("balance", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid balance. Enter a positive number:", nil, logger)
			return true
		}
		s.Risk.Balance = v
		s.State = engine.StateAwaitRiskPercent
		b.send(ctx, t.ChatID, "Enter RISK percent (e.g. 1 or 0.5):", nil, logger)
		return true

	case engine.StateAwaitRiskPercent:
		v, verr := engine.ParsePositive("risk percent", strings.TrimSuffix(strings.TrimSpace(t.Text), "%"))
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid percent. Enter a positive number:", nil, logger)
			return true
		}
		s.Risk.RiskPercent = v
		s.State = engine.StateAwaitRiskStop
		b.send(ctx, t.ChatID, "Enter STOP LOSS distance in pips:", nil, logger)
		return true

	case engine.StateAwaitRiskStop:
		v, verr := engine.ParsePositive("stop pips", t.Text)
		if verr != nil {
			b.send(ctx, t.ChatID, "Invalid pip distance. Enter a positive number:", nil, logger)
			return true
		}
		b.sendRiskResult(ctx, t.ChatID, s.Risk.Balance, s.Risk.RiskPercent, v, logger)
		b.sessions.Reset(t.UserID)
		return true
	}
	return false
}

func (b *Bot) commandCalendar(ctx context.Context, cmd telegram.Command, logger zerolog.Logger) {
	if b.calendar == nil || !b.calendar.Enabled() {
		b.send(ctx, cmd.ChatID, calendar.StaticMessage, nil, logger)
		return
	}
	events, err := b.calendar.Today(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("fetching calendar failed")
		b.send(ctx, cmd.ChatID, "❌ Calendar feed is unavailable right now.", nil, logger)
		return
	}
	b.send(ctx, cmd.ChatID, calendar.Render(events), nil, logger)
}

// handleText routes a free-text reply to whichever flow owns the
// session state.
func (b *Bot) handleText(ctx context.Context, t telegram.Text, logger zerolog.Logger) {
	s := b.sessions.Get(t.UserID)
	if s.Open != nil && b.handleOpenText(ctx, s, t, logger) {
		return
	}
	if (s.Close != nil || s.State == engine.StateAwaitCloseSymbol) && b.handleCloseText(ctx, s, t, logger) {
		return
	}
	if s.Risk != nil && b.handleRiskText(ctx, s, t, logger) {
		return
	}
	b.send(ctx, t.ChatID,
		"I didn't understand that. Use /open SYMBOL, /pending, /close, /closed, or /summary", nil, logger)
}
