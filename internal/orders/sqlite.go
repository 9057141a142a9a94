// SPDX-License-Identifier: MIT

// Package orders persists finalized orders in SQLite.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver

	"github.com/endulce/veci/internal/domain"
)

// Store is the order persistence contract.
type Store interface {
	// Save writes a confirmed order snapshot.
	Save(ctx context.Context, userPhone string, items []domain.LineItem, totalPrice string) error
	// ListRecent returns the newest orders first.
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_phone  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	items       TEXT NOT NULL,
	total_price TEXT NOT NULL DEFAULT 'Pending',
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_phone ON orders(user_phone);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open initializes the SQLite connection with WAL and busy_timeout applied to
// every pooled connection, then ensures the schema exists.
func Open(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orders: open failed: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orders: ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orders: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save writes the order with status confirmed. The item list is stored as a
// JSON snapshot; pricing stays free-form until a human prices the order.
func (s *SQLiteStore) Save(ctx context.Context, userPhone string, items []domain.LineItem, totalPrice string) error {
	if totalPrice == "" {
		totalPrice = "Pending"
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("orders: marshal items: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (user_phone, status, items, total_price, created_at) VALUES (?, ?, ?, ?, ?)`,
		userPhone, string(domain.OrderConfirmed), string(payload), totalPrice, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

// ListRecent returns up to limit orders, newest first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_phone, status, items, total_price, created_at FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("orders: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Order
	for rows.Next() {
		var (
			o       domain.Order
			status  string
			payload string
		)
		if err := rows.Scan(&o.ID, &o.UserPhone, &status, &payload, &o.TotalPrice, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		if err := json.Unmarshal([]byte(payload), &o.Items); err != nil {
			return nil, fmt.Errorf("orders: decode items for order %d: %w", o.ID, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: iterate: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
