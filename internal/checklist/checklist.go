// Package checklist defines the pre-trade quality checklist and the
// scoring engine over it.
package checklist

import (
	"fmt"
	"strings"

	"github.com/Arabx-yung/trade-bot/internal/models"
)

// Item is one weighted yes/no criterion.
type Item struct {
	Key    string
	Label  string
	Points int
}

// KeyAOIValid and KeyAOIPlus are mutually exclusive: an A+ area of
// interest supersedes the base condition.
const (
	KeyAOIValid = "aoi_valid"
	KeyAOIPlus  = "aoi_plus"
)

// Items is the fixed, ordered checklist definition.
var Items = []Item{
	{"trend_week", "Weekly Trend aligned", 10},
	{"trend_daily", "Daily Trend aligned", 10},
	{"trend_4h", "4H Trend aligned", 10},
	{KeyAOIValid, "AOI valid (<4 rejections)", 10},
	{KeyAOIPlus, "AOI A+ (>=4 rejections)", 20},
	{"entry_4h_engulf", "4H Engulfing from AOI", 10},
	{"entry_2h_sos", "2H Structure Shift (SOS)", 10},
	{"entry_1h_ms", "1H Morning Star", 0},
	{"conf_d_ema50", "Daily EMA50 rejection", 5},
	{"conf_4h_ema50", "4H EMA50 rejection", 5},
	{"conf_2h_ema50", "2H EMA50 rejection", 5},
	{"conf_d_fib", "Daily Fib 0.618/0.78 rejection", 5},
	{"conf_4h_fib", "4H Fib 0.618/0.78 rejection", 5},
	{"conf_2h_fib", "2H Fib 0.618/0.78 rejection", 5},
	{"conf_d_hs", "Daily Head&Shoulders completed", 5},
	{"conf_4h_hs", "4H Head&Shoulders completed", 5},
	{"conf_2h_hs", "2H Head&Shoulders completed", 5},
}

// MaxScore is the total achievable points across all items.
var MaxScore = func() int {
	total := 0
	for _, it := range Items {
		total += it.Points
	}
	return total
}()

// Selection maps checklist keys to whether the trader ticked them.
type Selection map[string]bool

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Score computes the total points and the per-item breakdown for a
// selection. The breakdown follows checklist definition order. When both
// AOI flags are ticked, aoi_valid is dropped before summing.
func Score(sel Selection) (int, []models.ScoreAward) {
	effective := sel
	if sel[KeyAOIValid] && sel[KeyAOIPlus] {
		effective = sel.Clone()
		effective[KeyAOIValid] = false
	}

	total := 0
	var breakdown []models.ScoreAward
	for _, it := range Items {
		if effective[it.Key] {
			total += it.Points
			breakdown = append(breakdown, models.ScoreAward{Label: it.Label, Points: it.Points})
		}
	}
	return total, breakdown
}

// LabelFor returns the display label for a checklist key.
func LabelFor(key string) (string, bool) {
	for _, it := range Items {
		if it.Key == key {
			return it.Label, true
		}
	}
	return "", false
}

// RenderBreakdown renders awarded items as bullet lines for the journal.
func RenderBreakdown(breakdown []models.ScoreAward) string {
	if len(breakdown) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(breakdown))
	for _, a := range breakdown {
		lines = append(lines, fmt.Sprintf("- %s: +%d", a.Label, a.Points))
	}
	return strings.Join(lines, "\n")
}
