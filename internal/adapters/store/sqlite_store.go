package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of core.AnalysisStore.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			content_hash TEXT UNIQUE,
			sender_domain TEXT,
			decision TEXT,
			risk_score REAL,
			cues TEXT,
			flags TEXT,
			created_at TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analyses table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trusted_senders (
			sender TEXT PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
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

	return &SQLiteStore{db: db, logger: logger}, nil
}

// SaveAnalysis stores the record; a repeated content hash is a no-op.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, rec *core.StoredAnalysis) error {
	cues, flags, err := marshalSets(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO analyses
			(id, content_hash, sender_domain, decision, risk_score, cues, flags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ContentHash, rec.SenderDomain, string(rec.Decision), rec.Score, cues, flags, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// IsTrustedSender reports whether the sender is on the allow-list.
func (s *SQLiteStore) IsTrustedSender(ctx context.Context, sender string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM trusted_senders WHERE sender = ?`, normalizeSender(sender)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query trusted senders: %w", err)
	}
	return true, nil
}

// AddTrustedSender puts the sender on the allow-list.
func (s *SQLiteStore) AddTrustedSender(ctx context.Context, sender string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO trusted_senders (sender) VALUES (?)`, normalizeSender(sender))
	if err != nil {
		return fmt.Errorf("failed to insert trusted sender: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// marshalSets encodes cue and flag lists as JSON for storage.
func marshalSets(rec *core.StoredAnalysis) (string, string, error) {
	cues, err := json.Marshal(rec.Cues)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal cues: %w", err)
	}
	flags, err := json.Marshal(rec.Flags)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal flags: %w", err)
	}
	return string(cues), string(flags), nil
}
