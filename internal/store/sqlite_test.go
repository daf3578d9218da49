package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPending(tradeID, symbol string) *models.PendingTrade {
	sl := 1.0950
	tp := 1.1100
	return &models.PendingTrade{
		TradeID:    tradeID,
		UserID:     42,
		Username:   "trader",
		Symbol:     symbol,
		Side:       models.SideBuy,
		Entry:      1.1000,
		StopLoss:   &sl,
		TakeProfit: &tp,
		Lot:        1.0,
		OpenedAt:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Score:      40,
		Breakdown: []models.ScoreAward{
			{Label: "Weekly Trend aligned", Points: 10},
			{Label: "Daily Trend aligned", Points: 10},
			{Label: "AOI A+ (>=4 rejections)", Points: 20},
		},
	}
}

func testClosed(pending *models.PendingTrade) *models.ClosedTrade {
	return &models.ClosedTrade{
		PendingTrade: *pending,
		Exit:         1.1050,
		ClosedAt:     pending.OpenedAt.Add(2*time.Hour + 30*time.Minute),
		Duration:     "2h 30m",
		Reason:       "hit first target",
		Result:       models.ResultWin,
		PnL:          models.PnL{Amount: 50, Unit: models.UnitAbsolute},
		Photos:       []string{"photo-1", "photo-2"},
	}
}

func TestInsertPendingRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := testPending("TRD-EURUSD-20250101090000", "EURUSD")
	require.NoError(t, s.InsertPending(ctx, in))

	trades, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, in.TradeID, got.TradeID)
	assert.Equal(t, in.Symbol, got.Symbol)
	assert.Equal(t, in.Side, got.Side)
	assert.Equal(t, in.Entry, got.Entry)
	require.NotNil(t, got.StopLoss)
	assert.Equal(t, *in.StopLoss, *got.StopLoss)
	require.NotNil(t, got.TakeProfit)
	assert.Equal(t, *in.TakeProfit, *got.TakeProfit)
	assert.Equal(t, in.Lot, got.Lot)
	assert.Equal(t, in.Score, got.Score)
	assert.Equal(t, in.Breakdown, got.Breakdown)
	assert.True(t, in.OpenedAt.Equal(got.OpenedAt))
}

func TestInsertPendingDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPending(ctx, testPending("TRD-EURUSD-20250101090000", "EURUSD")))
	err := s.InsertPending(ctx, testPending("TRD-EURUSD-20250101090000", "EURUSD"))
	assert.ErrorIs(t, err, errs.ErrDuplicateTradeID)
}

func TestLatestPendingBySymbol(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPending(ctx, testPending("TRD-EURUSD-20250101090000", "EURUSD")))
	require.NoError(t, s.InsertPending(ctx, testPending("TRD-GBPUSD-20250101090100", "GBPUSD")))
	require.NoError(t, s.InsertPending(ctx, testPending("TRD-EURUSD-20250101090200", "EURUSD")))

	got, err := s.LatestPendingBySymbol(ctx, "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, "TRD-EURUSD-20250101090200", got.TradeID)

	_, err = s.LatestPendingBySymbol(ctx, "USDJPY")
	assert.ErrorIs(t, err, errs.ErrTradeNotFound)
}

func TestListPendingNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPending(ctx, testPending("TRD-A-1", "AAA")))
	require.NoError(t, s.InsertPending(ctx, testPending("TRD-B-2", "BBB")))

	trades, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "TRD-B-2", trades[0].TradeID)
	assert.Equal(t, "TRD-A-1", trades[1].TradeID)
}

func TestDeletePendingIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPending(ctx, testPending("TRD-EURUSD-1", "EURUSD")))

	removed, err := s.DeletePending(ctx, "TRD-EURUSD-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeletePending(ctx, "TRD-EURUSD-1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMovePendingToClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := testPending("TRD-EURUSD-20250101090000", "EURUSD")
	require.NoError(t, s.InsertPending(ctx, pending))

	closed := testClosed(pending)
	require.NoError(t, s.MovePendingToClosed(ctx, pending.TradeID, closed))

	_, err := s.GetPendingByID(ctx, pending.TradeID)
	assert.ErrorIs(t, err, errs.ErrTradeNotFound)

	list, err := s.ListClosed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, pending.TradeID, got.TradeID)
	assert.Equal(t, "2h 30m", got.Duration)
	assert.Equal(t, models.ResultWin, got.Result)
	assert.Equal(t, models.PnL{Amount: 50, Unit: models.UnitAbsolute}, got.PnL)
	assert.Equal(t, []string{"photo-1", "photo-2"}, got.Photos)
	assert.True(t, pending.OpenedAt.Equal(got.OpenedAt))
}

func TestMoveFailsWhenPendingMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := testPending("TRD-EURUSD-20250101090000", "EURUSD")
	closed := testClosed(pending)

	// Pending row was never inserted (simulates a concurrent delete
	// winning the race): the closed insert must roll back too.
	err := s.MovePendingToClosed(ctx, pending.TradeID, closed)
	assert.ErrorIs(t, err, errs.ErrTradeNotFound)

	list, err := s.ListClosed(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMoveThenDeleteRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := testPending("TRD-EURUSD-20250101090000", "EURUSD")
	require.NoError(t, s.InsertPending(ctx, pending))
	require.NoError(t, s.MovePendingToClosed(ctx, pending.TradeID, testClosed(pending)))

	// A delete arriving after the move is a harmless no-op.
	removed, err := s.DeletePending(ctx, pending.TradeID)
	require.NoError(t, err)
	assert.False(t, removed)

	// The trade exists in exactly one collection.
	list, err := s.ListClosed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListClosedLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p := testPending(models.NewTradeID("EURUSD", time.Date(2025, 1, 1, 9, 0, i, 0, time.UTC)), "EURUSD")
		require.NoError(t, s.InsertClosed(ctx, testClosed(p)))
	}

	list, err := s.ListClosed(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDeleteClosedIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pending := testPending("TRD-EURUSD-1", "EURUSD")
	require.NoError(t, s.InsertClosed(ctx, testClosed(pending)))

	removed, err := s.DeleteClosed(ctx, "TRD-EURUSD-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteClosed(ctx, "TRD-EURUSD-1")
	require.NoError(t, err)
	assert.False(t, removed)
}
