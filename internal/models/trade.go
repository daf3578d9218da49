// Package models defines the core trade journal entities.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide parses a trade direction token.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B", "LONG":
		return SideBuy, nil
	case "SELL", "S", "SHORT":
		return SideSell, nil
	}
	return "", fmt.Errorf("invalid side: %q", s)
}

// Result represents the outcome of a closed trade.
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLoss      Result = "LOSS"
	ResultBreakEven Result = "BE"
)

// ParseResult normalizes the user-entered outcome. It tolerates the
// spellings traders actually type for break-even.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w", "won":
		return ResultWin, nil
	case "loss", "l", "lose", "lost":
		return ResultLoss, nil
	case "be", "b/e", "breakeven", "break-even":
		return ResultBreakEven, nil
	}
	return "", fmt.Errorf("invalid result: %q", s)
}

// ScoreAward is one checklist line item that contributed to the score.
type ScoreAward struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// PendingTrade is a committed-but-still-open position awaiting a close.
type PendingTrade struct {
	TradeID    string
	UserID     int64
	Username   string
	Symbol     string
	Side       Side
	Entry      float64
	StopLoss   *float64
	TakeProfit *float64
	Lot        float64
	OpenedAt   time.Time
	Score      int
	Breakdown  []ScoreAward
}

// ClosedTrade is the immutable record produced when a pending trade is
// finalized with exit data. It carries every pending field plus the
// outcome.
type ClosedTrade struct {
	PendingTrade

	Exit     float64
	ClosedAt time.Time
	Duration string
	Reason   string
	Result   Result
	PnL      PnL
	Photos   []string
}

// NewTradeID derives the canonical trade identifier for a symbol at a
// given instant: TRD-<SYMBOL>-<YYYYMMDDHHMMSS>.
func NewTradeID(symbol string, at time.Time) string {
	return fmt.Sprintf("TRD-%s-%s", strings.ToUpper(symbol), at.Format("20060102150405"))
}

// FormatDuration renders the span between open and close as "1d 2h 30m",
// omitting zero components. An instantaneous trade renders as "0m".
func FormatDuration(open, close time.Time) string {
	d := close.Sub(open)
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	mins := int(d/time.Minute) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}
