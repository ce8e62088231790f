package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore is a PostgreSQL implementation of core.AnalysisStore.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore connects to PostgreSQL with the given DSN and ensures the
// schema.
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			content_hash CHAR(64) NOT NULL UNIQUE,
			sender_domain TEXT,
			decision TEXT,
			risk_score DOUBLE PRECISION,
			cues JSONB,
			flags JSONB,
			created_at TIMESTAMPTZ
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analyses table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trusted_senders (
			sender TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ DEFAULT now()
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trusted_senders table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analyses_sender_domain ON analyses(sender_domain)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// SaveAnalysis stores the record; a repeated content hash is a no-op.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, rec *core.StoredAnalysis) error {
	cues, flags, err := marshalSets(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses
			(id, content_hash, sender_domain, decision, risk_score, cues, flags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (content_hash) DO NOTHING
	`, rec.ID, rec.ContentHash, rec.SenderDomain, string(rec.Decision), rec.Score, cues, flags, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// IsTrustedSender reports whether the sender is on the allow-list.
func (s *PostgresStore) IsTrustedSender(ctx context.Context, sender string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM trusted_senders WHERE sender = $1`, normalizeSender(sender)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query trusted senders: %w", err)
	}
	return true, nil
}

// AddTrustedSender puts the sender on the allow-list.
func (s *PostgresStore) AddTrustedSender(ctx context.Context, sender string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trusted_senders (sender) VALUES ($1)
		ON CONFLICT (sender) DO NOTHING
	`, normalizeSender(sender))
	if err != nil {
		return fmt.Errorf("failed to insert trusted sender: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
