// Package report aggregates closed trades into summary figures over a
// week, month or all-time window.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Arabx-yung/trade-bot/internal/models"
)

// Period selects the reporting window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a command argument to a Period. Empty input means
// all time.
func ParsePeriod(arg string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		return PeriodAll, nil
	case "week", "w":
		return PeriodWeek, nil
	case "month", "m":
		return PeriodMonth, nil
	case "all":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("unknown period %q, expected week or month", arg)
}

// Summary is the aggregate over one window.
type Summary struct {
	Period        Period
	Total         int
	Wins          int
	Losses        int
	BreakEvens    int
	WinRate       float64
	AvgScore      float64
	AbsoluteTotal float64
	PercentTotal  float64
}

// inWindow reports whether ts falls inside the period anchored at now.
// Week windows compare ISO week numbers, month windows year and month.
func inWindow(ts time.Time, period Period, now time.Time) bool {
	switch period {
	case PeriodWeek:
		ny, nw := now.ISOWeek()
		ty, tw := ts.ISOWeek()
		return ny == ty && nw == tw
	case PeriodMonth:
		return now.Year() == ts.Year() && now.Month() == ts.Month()
	}
	return true
}

// Summarize aggregates the trades whose close timestamp falls in the
// window. Timestamps are compared in now's location. PnL totals are
// kept per unit; mixing percent and absolute entries never sums them
// together.
func Summarize(trades []models.ClosedTrade, period Period, now time.Time) Summary {
	s := Summary{Period: period}
	var scoreSum int
	for _, t := range trades {
		if !inWindow(t.ClosedAt.In(now.Location()), period, now) {
			continue
		}
		s.Total++
		scoreSum += t.Score
		switch t.Result {
		case models.ResultWin:
			s.Wins++
		case models.ResultLoss:
			s.Losses++
		case models.ResultBreakEven:
			s.BreakEvens++
		}
		switch t.PnL.Unit {
		case models.UnitPercent:
			s.PercentTotal += t.PnL.Amount
		default:
			s.AbsoluteTotal += t.PnL.Amount
		}
	}
	if s.Total > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Total) * 100
		s.AvgScore = float64(scoreSum) / float64(s.Total)
	}
	return s
}

// Render formats a summary for chat.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Summary (%s)\n", s.Period)
	fmt.Fprintf(&b, "Trades: %d\n", s.Total)
	if s.Total == 0 {
		b.WriteString("No closed trades in this period.")
		return b.String()
	}
	fmt.Fprintf(&b, "Wins: %d | Losses: %d | Break-even: %d\n", s.Wins, s.Losses, s.BreakEvens)
	fmt.Fprintf(&b, "Win rate: %.1f%%\n", s.WinRate)
	fmt.Fprintf(&b, "Avg score: %.1f\n", s.AvgScore)
	if s.PercentTotal != 0 {
		fmt.Fprintf(&b, "PnL: %+.2f%%\n", s.PercentTotal)
	}
	if s.AbsoluteTotal != 0 {
		fmt.Fprintf(&b, "PnL: %+.2f\n", s.AbsoluteTotal)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderStat formats the condensed win-rate view.
func (s Summary) RenderStat() string {
	if s.Total == 0 {
		return fmt.Sprintf("📈 Stats (%s): no closed trades.", s.Period)
	}
	return fmt.Sprintf("📈 Stats (%s): %d trades, %.1f%% win rate (%dW/%dL/%dBE)",
		s.Period, s.Total, s.WinRate, s.Wins, s.Losses, s.BreakEvens)
}
