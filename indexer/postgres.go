package indexer

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// PostgresConfig holds the receipt database settings.
type PostgresConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max-connections"`
	MaxIdle        int           `mapstructure:"max-idle"`
	ConnMaxLife    time.Duration `mapstructure:"conn-max-life"`
}

// PostgresSink writes receipts and their events to PostgreSQL.
type PostgresSink struct {
	db *sql.DB
}

var _ Sink = (*PostgresSink)(nil)

// NewPostgresSink connects, pings and applies the receipt schema.
func NewPostgresSink(ctx context.Context, cfg PostgresConfig) (*PostgresSink, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.ConnMaxLife > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLife)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &PostgresSink{db: db}, nil
}

// Index stores the receipt and its events in one transaction. Re-indexing a
// receipt id is a no-op.
func (s *PostgresSink) Index(ctx context.Context, receipt Receipt) error {
	msg := receipt.Msg
	if len(msg) == 0 {
		msg = json.RawMessage("{}")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO academy_receipts (id, height, action, msg, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, receipt.ID, receipt.Height, receipt.Action, []byte(msg), receipt.Time); err != nil {
		return fmt.Errorf("failed to insert receipt %s: %w", receipt.ID, err)
	}

	for _, row := range receipt.EventRows() {
		attrs, err := json.Marshal(row.Attributes)
		if err != nil {
			return fmt.Errorf("failed to encode event attributes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO academy_events (receipt_id, event_index, event_type, attributes)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (receipt_id, event_index) DO NOTHING
		`, receipt.ID, row.Index, row.Type, attrs); err != nil {
			return fmt.Errorf("failed to insert event %d of %s: %w", row.Index, receipt.ID, err)
		}
	}

	return tx.Commit()
}

// CountByAction returns how many receipts of action were indexed.
func (s *PostgresSink) CountByAction(ctx context.Context, action string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM academy_receipts WHERE action = $1", action).Scan(&n)
	return n, err
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}
