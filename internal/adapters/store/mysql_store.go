package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of core.AnalysisStore.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL with the given DSN and ensures the schema.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id VARCHAR(36) PRIMARY KEY,
			content_hash CHAR(64) NOT NULL,
			sender_domain VARCHAR(255),
			decision VARCHAR(8),
			risk_score DOUBLE,
			cues TEXT,
			flags TEXT,
			created_at TIMESTAMP,
			UNIQUE KEY uniq_content_hash (content_hash),
			KEY idx_sender_domain (sender_domain)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analyses table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trusted_senders (
			sender VARCHAR(320) PRIMARY KEY,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trusted_senders table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// SaveAnalysis stores the record; a repeated content hash is a no-op.
func (s *MySQLStore) SaveAnalysis(ctx context.Context, rec *core.StoredAnalysis) error {
	cues, flags, err := marshalSets(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT IGNORE INTO analyses
			(id, content_hash, sender_domain, decision, risk_score, cues, flags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ContentHash, rec.SenderDomain, string(rec.Decision), rec.Score, cues, flags, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// IsTrustedSender reports whether the sender is on the allow-list.
func (s *MySQLStore) IsTrustedSender(ctx context.Context, sender string) (bool, error) {
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
func (s *MySQLStore) AddTrustedSender(ctx context.Context, sender string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT IGNORE INTO trusted_senders (sender) VALUES (?)`, normalizeSender(sender))
	if err != nil {
		return fmt.Errorf("failed to insert trusted sender: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
