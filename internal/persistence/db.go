// Package persistence provides the SQLite trade ledger: an append-only
// record of executed and failed proposals plus run metadata. This is an
// audit log, not a save game.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tradefloor/internal/pipeline"
)

// DB wraps a SQLite connection for the trade ledger.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		instrument_id TEXT NOT NULL,
		ticker TEXT NOT NULL,
		direction TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		target_price REAL NOT NULL,
		confidence INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_by TEXT NOT NULL,
		reviewed_by TEXT,
		executed_by TEXT,
		created_at INTEGER NOT NULL,
		executed_at INTEGER,
		executed_price REAL,
		slippage REAL,
		is_mistake INTEGER NOT NULL,
		reject_reason TEXT
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordTrade appends one finished proposal to the ledger. Duplicate ids
// are replaced, which makes the write idempotent per proposal.
func (db *DB) RecordTrade(p *pipeline.Proposal) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO trades
		(id, instrument_id, ticker, direction, quantity, target_price, confidence,
		 status, created_by, reviewed_by, executed_by, created_at, executed_at,
		 executed_price, slippage, is_mistake, reject_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InstrumentID, p.Ticker, string(p.Direction), p.Quantity,
		p.TargetPrice, p.Confidence, string(p.Status), p.CreatedByStaffID,
		nullStr(p.ReviewedByStaffID), nullStr(p.ExecutedByStaffID),
		p.CreatedAt, p.ExecutedAt, p.ExecutedPrice, p.Slippage,
		boolInt(p.IsMistake), nullStr(p.RejectReason),
	)
	if err != nil {
		return fmt.Errorf("record trade %s: %w", p.ID, err)
	}
	return nil
}

// TradeCount returns the number of ledger rows with the given status.
func (db *DB) TradeCount(status pipeline.Status) (int, error) {
	var n int
	if err := db.conn.Get(&n, `SELECT COUNT(*) FROM trades WHERE status = ?`, string(status)); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

// SetMeta stores a run metadata value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta reads a run metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var v string
	if err := db.conn.Get(&v, `SELECT value FROM meta WHERE key = ?`, key); err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return v, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
