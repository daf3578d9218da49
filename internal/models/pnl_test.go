package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePnL(t *testing.T) {
	cases := []struct {
		in     string
		amount float64
		unit   PnLUnit
	}{
		{"123.45", 123.45, UnitAbsolute},
		{"-50", -50, UnitAbsolute},
		{"+75", 75, UnitAbsolute},
		{"2.5%", 2.5, UnitPercent},
		{"-1.2 %", -1.2, UnitPercent},
		{"1,200", 1200, UnitAbsolute},
		{"$300", 300, UnitAbsolute},
	}
	for _, c := range cases {
		got, err := ParsePnL(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.amount, got.Amount, "input %q", c.in)
		assert.Equal(t, c.unit, got.Unit, "input %q", c.in)
	}
}

func TestParsePnLRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12..3", "%"} {
		_, err := ParsePnL(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseResultTolerance(t *testing.T) {
	for _, in := range []string{"WIN", "win", " Win "} {
		r, err := ParseResult(in)
		require.NoError(t, err)
		assert.Equal(t, ResultWin, r)
	}
	for _, in := range []string{"be", "BE", "b/e", "breakeven", "Break-Even"} {
		r, err := ParseResult(in)
		require.NoError(t, err)
		assert.Equal(t, ResultBreakEven, r)
	}
	_, err := ParseResult("draw")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	loc := time.UTC
	open := time.Date(2025, 1, 1, 9, 0, 0, 0, loc)

	assert.Equal(t, "2h 30m", FormatDuration(open, open.Add(2*time.Hour+30*time.Minute)))
	assert.Equal(t, "1d 5m", FormatDuration(open, open.Add(24*time.Hour+5*time.Minute)))
	assert.Equal(t, "3d", FormatDuration(open, open.Add(72*time.Hour)))
	assert.Equal(t, "45m", FormatDuration(open, open.Add(45*time.Minute)))
	assert.Equal(t, "0m", FormatDuration(open, open))
	assert.Equal(t, "0m", FormatDuration(open, open.Add(-time.Hour)))
}

func TestNewTradeID(t *testing.T) {
	at := time.Date(2025, 9, 15, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "TRD-EURUSD-20250915093005", NewTradeID("eurusd", at))
}
