package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
	"github.com/Arabx-yung/trade-bot/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Serialize writers; the move transaction must never interleave
	// with a concurrent delete of the same pending id.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the two trade collections.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pending_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL,
		username TEXT,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry REAL NOT NULL,
		stop_loss REAL,
		take_profit REAL,
		lot REAL NOT NULL,
		opened_at DATETIME NOT NULL,
		score INTEGER NOT NULL,
		breakdown TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS closed_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		username TEXT,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry REAL NOT NULL,
		exit REAL NOT NULL,
		stop_loss REAL,
		take_profit REAL,
		lot REAL NOT NULL,
		opened_at DATETIME NOT NULL,
		closed_at DATETIME NOT NULL,
		duration TEXT NOT NULL,
		score INTEGER NOT NULL,
		breakdown TEXT NOT NULL,
		reason TEXT,
		result TEXT NOT NULL,
		pnl_amount REAL NOT NULL,
		pnl_unit TEXT NOT NULL,
		photos TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pending_symbol ON pending_trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_closed_trade_id ON closed_trades(trade_id);
	CREATE INDEX IF NOT EXISTS idx_closed_closed_at ON closed_trades(closed_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertPending persists a new pending trade.
func (s *SQLiteStore) InsertPending(ctx context.Context, trade *models.PendingTrade) error {
	breakdown, err := json.Marshal(trade.Breakdown)
	if err != nil {
		return errs.NewStoreError("insert_pending", trade.TradeID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pending_trades (trade_id, user_id, username, symbol, side, entry, stop_loss, take_profit, lot, opened_at, score, breakdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.TradeID, trade.UserID, trade.Username, trade.Symbol, trade.Side,
		trade.Entry, trade.StopLoss, trade.TakeProfit, trade.Lot,
		trade.OpenedAt, trade.Score, string(breakdown))
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrDuplicateTradeID
		}
		return errs.NewStoreError("insert_pending", trade.TradeID, err)
	}
	return nil
}

// InsertClosed persists a closed trade.
func (s *SQLiteStore) InsertClosed(ctx context.Context, trade *models.ClosedTrade) error {
	if err := s.execInsertClosed(ctx, s.db, trade); err != nil {
		return errs.NewStoreError("insert_closed", trade.TradeID, err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) execInsertClosed(ctx context.Context, ex execer, trade *models.ClosedTrade) error {
	breakdown, err := json.Marshal(trade.Breakdown)
	if err != nil {
		return err
	}
	photos, err := json.Marshal(trade.Photos)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO closed_trades (trade_id, user_id, username, symbol, side, entry, exit, stop_loss, take_profit, lot, opened_at, closed_at, duration, score, breakdown, reason, result, pnl_amount, pnl_unit, photos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.TradeID, trade.UserID, trade.Username, trade.Symbol, trade.Side,
		trade.Entry, trade.Exit, trade.StopLoss, trade.TakeProfit, trade.Lot,
		trade.OpenedAt, trade.ClosedAt, trade.Duration, trade.Score, string(breakdown),
		trade.Reason, trade.Result, trade.PnL.Amount, trade.PnL.Unit, string(photos))
	return err
}

const pendingColumns = "trade_id, user_id, username, symbol, side, entry, stop_loss, take_profit, lot, opened_at, score, breakdown"

// GetPendingByID returns the pending trade with the given id.
func (s *SQLiteStore) GetPendingByID(ctx context.Context, tradeID string) (*models.PendingTrade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pendingColumns+` FROM pending_trades WHERE trade_id = ? LIMIT 1
	`, tradeID)
	return scanPending(row)
}

// LatestPendingBySymbol returns the newest pending trade for a symbol.
func (s *SQLiteStore) LatestPendingBySymbol(ctx context.Context, symbol string) (*models.PendingTrade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pendingColumns+` FROM pending_trades WHERE symbol = ? ORDER BY id DESC LIMIT 1
	`, symbol)
	return scanPending(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPending(row rowScanner) (*models.PendingTrade, error) {
	var t models.PendingTrade
	var breakdownJSON string
	err := row.Scan(&t.TradeID, &t.UserID, &t.Username, &t.Symbol, &t.Side,
		&t.Entry, &t.StopLoss, &t.TakeProfit, &t.Lot, &t.OpenedAt, &t.Score, &breakdownJSON)
	if err == sql.ErrNoRows {
		return nil, errs.ErrTradeNotFound
	}
	if err != nil {
		return nil, errs.NewStoreError("scan_pending", "", err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &t.Breakdown); err != nil {
		return nil, errs.NewStoreError("scan_pending", t.TradeID, err)
	}
	return &t, nil
}

// ListPending returns all pending trades, newest first.
func (s *SQLiteStore) ListPending(ctx context.Context) ([]models.PendingTrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pendingColumns+` FROM pending_trades ORDER BY id DESC
	`)
	if err != nil {
		return nil, errs.NewStoreError("list_pending", "", err)
	}
	defer rows.Close()

	var trades []models.PendingTrade
	for rows.Next() {
		t, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}

// ListClosed returns closed trades, newest first.
func (s *SQLiteStore) ListClosed(ctx context.Context, limit int) ([]models.ClosedTrade, error) {
	query := `
		SELECT trade_id, user_id, username, symbol, side, entry, exit, stop_loss, take_profit, lot, opened_at, closed_at, duration, score, breakdown, reason, result, pnl_amount, pnl_unit, photos
		FROM closed_trades ORDER BY id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewStoreError("list_closed", "", err)
	}
	defer rows.Close()

	var trades []models.ClosedTrade
	for rows.Next() {
		var t models.ClosedTrade
		var breakdownJSON, photosJSON string
		if err := rows.Scan(&t.TradeID, &t.UserID, &t.Username, &t.Symbol, &t.Side,
			&t.Entry, &t.Exit, &t.StopLoss, &t.TakeProfit, &t.Lot,
			&t.OpenedAt, &t.ClosedAt, &t.Duration, &t.Score, &breakdownJSON,
			&t.Reason, &t.Result, &t.PnL.Amount, &t.PnL.Unit, &photosJSON); err != nil {
			return nil, errs.NewStoreError("list_closed", "", err)
		}
		if err := json.Unmarshal([]byte(breakdownJSON), &t.Breakdown); err != nil {
			return nil, errs.NewStoreError("list_closed", t.TradeID, err)
		}
		if err := json.Unmarshal([]byte(photosJSON), &t.Photos); err != nil {
			return nil, errs.NewStoreError("list_closed", t.TradeID, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// DeletePending removes a pending trade, idempotently.
func (s *SQLiteStore) DeletePending(ctx context.Context, tradeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return false, errs.NewStoreError("delete_pending", tradeID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteClosed removes a closed trade, idempotently.
func (s *SQLiteStore) DeleteClosed(ctx context.Context, tradeID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM closed_trades WHERE trade_id = ?`, tradeID)
	if err != nil {
		return false, errs.NewStoreError("delete_closed", tradeID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MovePendingToClosed promotes a pending trade to closed in a single
// transaction. The pending delete must affect exactly one row or the
// whole move rolls back, so a trade can never live in both collections
// or vanish from both.
func (s *SQLiteStore) MovePendingToClosed(ctx context.Context, pendingID string, closed *models.ClosedTrade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewStoreError("move", pendingID, err)
	}
	defer tx.Rollback()

	if err := s.execInsertClosed(ctx, tx, closed); err != nil {
		return errs.NewStoreError("move", pendingID, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pending_trades WHERE trade_id = ?`, pendingID)
	if err != nil {
		return errs.NewStoreError("move", pendingID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrTradeNotFound
	}

	if err := tx.Commit(); err != nil {
		return errs.NewStoreError("move", pendingID, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errs.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// touchTimeout is how long store calls may take before the caller should
// assume the database is wedged.
const touchTimeout = 5 * time.Second

// WithTimeout wraps ctx with the store's standard deadline.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, touchTimeout)
}
