package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"checklens/internal/config"
)

// NewDB opens the local sqlite database file.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// schema is the single flat table mirroring the check record. There is no
// migration machinery: the table is created on startup if absent.
const schema = `CREATE TABLE IF NOT EXISTS processed_checks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	check_number TEXT,
	amount REAL,
	amount_in_words TEXT,
	payee TEXT,
	date TEXT,
	bank_name TEXT,
	account_number TEXT,
	routing_number TEXT,
	memo TEXT,
	signature_present TEXT,
	confidence_score REAL,
	fraud_risk_score REAL,
	recommendation TEXT,
	risk_factors TEXT,
	image_key TEXT,
	processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the processed_checks table if it does not exist.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
