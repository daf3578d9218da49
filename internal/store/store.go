// Package store provides trade persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/Arabx-yung/trade-bot/internal/models"
)

// TradeStore defines the persistence contract over the two trade
// collections. All operations address trades by trade id unless noted.
type TradeStore interface {
	// InsertPending persists a new pending trade. Returns
	// errors.ErrDuplicateTradeID when the trade id already exists.
	InsertPending(ctx context.Context, trade *models.PendingTrade) error

	// InsertClosed persists a closed trade unconditionally.
	InsertClosed(ctx context.Context, trade *models.ClosedTrade) error

	// GetPendingByID returns the pending trade with the given id, or
	// errors.ErrTradeNotFound.
	GetPendingByID(ctx context.Context, tradeID string) (*models.PendingTrade, error)

	// LatestPendingBySymbol returns the most recently created pending
	// trade for a symbol, or errors.ErrTradeNotFound.
	LatestPendingBySymbol(ctx context.Context, symbol string) (*models.PendingTrade, error)

	// ListPending returns all pending trades, newest first.
	ListPending(ctx context.Context) ([]models.PendingTrade, error)

	// ListClosed returns closed trades, newest first. A non-positive
	// limit returns everything.
	ListClosed(ctx context.Context, limit int) ([]models.ClosedTrade, error)

	// DeletePending removes a pending trade. Deleting a nonexistent id
	// is a no-op; the bool reports whether a row was removed.
	DeletePending(ctx context.Context, tradeID string) (bool, error)

	// DeleteClosed removes a closed trade, idempotently.
	DeleteClosed(ctx context.Context, tradeID string) (bool, error)

	// MovePendingToClosed atomically inserts the closed record and
	// deletes the pending one. Either both take effect or neither does;
	// if the pending row is already gone (concurrent delete) the whole
	// operation fails with errors.ErrTradeNotFound.
	MovePendingToClosed(ctx context.Context, pendingID string, closed *models.ClosedTrade) error

	// Close releases the underlying storage.
	Close() error
}
