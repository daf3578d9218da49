package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PnLUnit discriminates percentage from absolute profit figures so that
// aggregation never conflates the two.
type PnLUnit string

const (
	UnitAbsolute PnLUnit = "absolute"
	UnitPercent  PnLUnit = "percent"
)

// PnL is a tagged profit-and-loss value. The user's free text is parsed
// into this type once, at the conversation boundary.
type PnL struct {
	Amount float64 `json:"amount"`
	Unit   PnLUnit `json:"unit"`
}

// ParsePnL parses user input such as "123.45", "-50", "2.5%" or
// "+1,200". A trailing percent sign selects the percent unit; thousands
// separators and a leading currency sign are stripped.
func ParsePnL(s string) (PnL, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return PnL{}, fmt.Errorf("empty pnl")
	}

	unit := UnitAbsolute
	if strings.HasSuffix(raw, "%") {
		unit = UnitPercent
		raw = strings.TrimSuffix(raw, "%")
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSpace(raw)

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return PnL{}, fmt.Errorf("invalid pnl %q: %w", s, err)
	}
	return PnL{Amount: amount, Unit: unit}, nil
}

// String renders the value the way the user entered it.
func (p PnL) String() string {
	if p.Unit == UnitPercent {
		return strconv.FormatFloat(p.Amount, 'f', -1, 64) + "%"
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}
