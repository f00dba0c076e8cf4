// Package sqlite is the durable local storage for the ledger. It holds
// full snapshots of both collections plus the small settings table
// (remote endpoint URL, payment identifier, business name, last-sync
// display timestamp).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/momai-ledger/momai/internal/domain"
)

// Well-known settings keys.
const (
	SettingSheetURL     = "sheet_url"
	SettingUPIID        = "upi_id"
	SettingBusinessName = "business_name"
	SettingLastSync     = "last_sync"
)

// DB wraps the single-writer SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and
// applies the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The snapshot store is single-writer; one connection avoids
	// SQLITE_BUSY under concurrent reads.
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }

// Migrations returns the schema statements. Each string is a single SQL
// statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			phone         TEXT NOT NULL,
			total_sales   REAL NOT NULL DEFAULT 0,
			total_paid    REAL NOT NULL DEFAULT 0,
			due           REAL NOT NULL DEFAULT 0,
			last_activity TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			position      INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			type        TEXT NOT NULL,
			amount      REAL NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date        TEXT NOT NULL,
			position    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
}

func (d *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Snapshot Operations ────────────────────────────────────────────────────

// SaveSnapshot replaces both persisted collections in one transaction.
// The position column preserves in-memory order (newest first).
func (d *DB) SaveSnapshot(customers []domain.Customer, transactions []domain.Transaction) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM customers`); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	for i, c := range customers {
		isActive := 0
		if c.IsActive {
			isActive = 1
		}
		_, err := tx.Exec(`
			INSERT INTO customers (id, name, phone, total_sales, total_paid, due, last_activity, is_active, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.Name, c.Phone, c.TotalSales, c.TotalPaid, c.Due,
			c.LastActivity.Format(time.RFC3339Nano), isActive, i)
		if err != nil {
			return fmt.Errorf("insert customer %s: %w", c.ID, err)
		}
	}

	for i, t := range transactions {
		_, err := tx.Exec(`
			INSERT INTO transactions (id, customer_id, type, amount, description, date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.CustomerID, string(t.Type), t.Amount, t.Description,
			t.Date.Format(time.RFC3339Nano), i)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns both collections in stored order.
func (d *DB) LoadSnapshot() ([]domain.Customer, []domain.Transaction, error) {
	rows, err := d.db.Query(`
		SELECT id, name, phone, total_sales, total_paid, due, last_activity, is_active
		FROM customers ORDER BY position
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		var lastActivity string
		var isActive int
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.TotalSales, &c.TotalPaid, &c.Due, &lastActivity, &isActive); err != nil {
			return nil, nil, fmt.Errorf("scan customer: %w", err)
		}
		c.LastActivity, err = time.Parse(time.RFC3339Nano, lastActivity)
		if err != nil {
			return nil, nil, fmt.Errorf("parse last_activity for %s: %w", c.ID, err)
		}
		c.IsActive = isActive == 1
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	txRows, err := d.db.Query(`
		SELECT id, customer_id, type, amount, description, date
		FROM transactions ORDER BY position
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	defer txRows.Close()

	var transactions []domain.Transaction
	for txRows.Next() {
		var t domain.Transaction
		var txType, date string
		if err := txRows.Scan(&t.ID, &t.CustomerID, &txType, &t.Amount, &t.Description, &date); err != nil {
			return nil, nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(txType)
		t.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, nil, fmt.Errorf("parse date for %s: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}
	return customers, transactions, txRows.Err()
}

// ─── Settings Operations ────────────────────────────────────────────────────

// GetSetting returns the stored value for key, or the empty string when
// unset.
func (d *DB) GetSetting(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting upserts one settings entry.
func (d *DB) SetSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
