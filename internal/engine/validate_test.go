package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	v, verr := ParsePrice("entry", " 1,950.25 ")
	require.Nil(t, verr)
	assert.Equal(t, 1950.25, v)

	_, verr = ParsePrice("entry", "abc")
	require.NotNil(t, verr)
	assert.Equal(t, "entry", verr.Field)
}

func TestParsePositive(t *testing.T) {
	v, verr := ParsePositive("lot", "0.5")
	require.Nil(t, verr)
	assert.Equal(t, 0.5, v)

	_, verr = ParsePositive("lot", "0")
	assert.NotNil(t, verr)

	_, verr = ParsePositive("lot", "-1")
	assert.NotNil(t, verr)
}

func TestParseOptionalPrice(t *testing.T) {
	v, verr := ParseOptionalPrice("stop loss", "1.0800")
	require.Nil(t, verr)
	require.NotNil(t, v)
	assert.Equal(t, 1.08, *v)

	for _, skip := range []string{"NONE", "none", " n "} {
		v, verr = ParseOptionalPrice("stop loss", skip)
		require.Nil(t, verr)
		assert.Nil(t, v)
	}

	_, verr = ParseOptionalPrice("stop loss", "later")
	assert.NotNil(t, verr)
}

func TestParseTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	got, verr := ParseTimestamp("open time", "2025-03-10 09:30", loc)
	require.Nil(t, verr)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, loc), got)

	_, verr = ParseTimestamp("open time", "10/03/2025", loc)
	assert.NotNil(t, verr)
}

func TestParseSymbol(t *testing.T) {
	s, verr := ParseSymbol("  eurusd ")
	require.Nil(t, verr)
	assert.Equal(t, "EURUSD", s)

	_, verr = ParseSymbol("")
	assert.NotNil(t, verr)

	_, verr = ParseSymbol("EUR USD")
	assert.NotNil(t, verr)
}

func TestIsSkipToken(t *testing.T) {
	assert.True(t, IsSkipToken(" same ", TokenSame))
	assert.True(t, IsSkipToken("done", TokenDone))
	assert.False(t, IsSkipToken("sameish", TokenSame))
}
