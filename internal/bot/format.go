package bot

import (
	"fmt"
	"strings"

	"github.com/Arabx-yung/trade-bot/internal/checklist"
	"github.com/Arabx-yung/trade-bot/internal/engine"
	"github.com/Arabx-yung/trade-bot/internal/models"
	"github.com/Arabx-yung/trade-bot/internal/telegram"
	"github.com/Arabx-yung/trade-bot/pkg/utils"
)

func menuKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "✅ Check Trade", CallbackData: telegram.EncodeCallback(telegram.ActionMenuCheck, "")},
		{Text: "✖️ Close Trade", CallbackData: telegram.EncodeCallback(telegram.ActionMenuClose, "")},
	}}}
}

func directionKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "🟢 BUY", CallbackData: telegram.EncodeCallback(telegram.ActionDirection, string(models.SideBuy))},
		{Text: "🔴 SELL", CallbackData: telegram.EncodeCallback(telegram.ActionDirection, string(models.SideSell))},
	}}}
}

// checklistKeyboard renders the toggle grid in compact rows of three,
// with the current selection marked.
func checklistKeyboard(sel checklist.Selection) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	var row []telegram.InlineKeyboardButton
	for _, it := range checklist.Items {
		mark := "⬜️"
		if sel[it.Key] {
			mark = "✅"
		}
		row = append(row, telegram.InlineKeyboardButton{
			Text:         mark + " " + it.Label,
			CallbackData: telegram.EncodeCallback(telegram.ActionToggle, it.Key),
		})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []telegram.InlineKeyboardButton{
		{Text: "🔄 Reset", CallbackData: telegram.EncodeCallback(telegram.ActionResetChecklist, "")},
		{Text: "✅ Done", CallbackData: telegram.EncodeCallback(telegram.ActionChecklistDone, "")},
	})
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func takeKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "✅ Take trade", CallbackData: telegram.EncodeCallback(telegram.ActionTakeTrade, "")},
		{Text: "❌ Skip trade", CallbackData: telegram.EncodeCallback(telegram.ActionSkipTrade, "")},
	}}}
}

func pendingSelectionKeyboard(trades []models.PendingTrade, action telegram.CallbackAction) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(trades))
	for _, t := range trades {
		label := fmt.Sprintf("%s %s @%s", t.Symbol, t.Side, utils.FormatPrice(t.Entry))
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         label,
			CallbackData: telegram.EncodeCallback(action, t.TradeID),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func closedSelectionKeyboard(trades []models.ClosedTrade) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(trades))
	for _, t := range trades {
		label := fmt.Sprintf("%s %s Entry:%s Exit:%s", t.Symbol, t.Side, utils.FormatPrice(t.Entry), utils.FormatPrice(t.Exit))
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text:         label,
			CallbackData: telegram.EncodeCallback(telegram.ActionDeleteClosed, t.TradeID),
		}})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func periodKeyboard(action telegram.CallbackAction) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "Week", CallbackData: telegram.EncodeCallback(action, "week")},
		{Text: "Month", CallbackData: telegram.EncodeCallback(action, "month")},
		{Text: "All time", CallbackData: telegram.EncodeCallback(action, "all")},
	}}}
}

func renderPendingList(trades []models.PendingTrade) string {
	var b strings.Builder
	b.WriteString("📂 Pending trades (most recent first):\n\n")
	for i, t := range trades {
		fmt.Fprintf(&b, "%d. %s %s | Entry: %s | SL: %s | TP: %s | Lot: %s\n",
			i+1, t.Symbol, t.Side, utils.FormatPrice(t.Entry),
			utils.FormatOptionalPrice(t.StopLoss), utils.FormatOptionalPrice(t.TakeProfit),
			utils.FormatLot(t.Lot))
		fmt.Fprintf(&b, "   Open: %s | Score: %d | ID: %s\n\n",
			t.OpenedAt.Format(engine.TimeLayout), t.Score, t.TradeID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderClosedList(trades []models.ClosedTrade) string {
	var b strings.Builder
	b.WriteString("📁 Closed trades (recent):\n\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "- %s %s | Entry: %s Exit: %s | Result: %s | PnL: %s\n",
			t.Symbol, t.Side, utils.FormatPrice(t.Entry), utils.FormatPrice(t.Exit),
			t.Result, t.PnL.String())
		fmt.Fprintf(&b, "  Open: %s | Close: %s | ID: %s\n\n",
			t.OpenedAt.Format(engine.TimeLayout), t.ClosedAt.Format(engine.TimeLayout), t.TradeID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// journalCaption renders the channel post for a closed trade. The
// stored breakdown is rendered as saved at open time, never recomputed.
func journalCaption(t *models.ClosedTrade) string {
	return fmt.Sprintf(
		"📓 Trade Journal\n\n"+
			"📌 Pair: %s %s\n"+
			"🎯 Entry: %s | Exit: %s\n"+
			"📏 Lot: %s\n"+
			"⏳ Open: %s | Close: %s | Duration: %s\n\n"+
			"📊 Score: %d/%d\n"+
			"%s\n\n"+
			"📝 Reason: %s\n"+
			"📈 Result: %s\n"+
			"💰 PnL: %s",
		t.Symbol, t.Side,
		utils.FormatPrice(t.Entry), utils.FormatPrice(t.Exit),
		utils.FormatLot(t.Lot),
		t.OpenedAt.Format(engine.TimeLayout), t.ClosedAt.Format(engine.TimeLayout), t.Duration,
		t.Score, checklist.MaxScore,
		checklist.RenderBreakdown(t.Breakdown),
		t.Reason, t.Result, t.PnL.String(),
	)
}
