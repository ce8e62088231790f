// Package store provides the persistence collaborators for finished analyses
// and the trusted-sender allow-list.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of core.AnalysisStore, used for
// tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*core.StoredAnalysis
	trusted  map[string]struct{}
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		analyses: make(map[string]*core.StoredAnalysis),
		trusted:  make(map[string]struct{}),
		logger:   logger,
	}
}

// SaveAnalysis stores the record; a repeated content hash is a no-op.
func (s *MemoryStore) SaveAnalysis(ctx context.Context, rec *core.StoredAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[rec.ContentHash]; ok {
		return nil
	}
	stored := *rec
	s.analyses[rec.ContentHash] = &stored
	return nil
}

// GetAnalysis returns the stored record for a content hash, if any.
func (s *MemoryStore) GetAnalysis(hash string) (*core.StoredAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.analyses[hash]
	return rec, ok
}

// Len returns the number of stored analyses.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}

// IsTrustedSender reports whether the sender is on the allow-list.
func (s *MemoryStore) IsTrustedSender(ctx context.Context, sender string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.trusted[normalizeSender(sender)]
	return ok, nil
}

// AddTrustedSender puts the sender on the allow-list.
func (s *MemoryStore) AddTrustedSender(ctx context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trusted[normalizeSender(sender)] = struct{}{}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func normalizeSender(sender string) string {
	return strings.ToLower(strings.TrimSpace(sender))
}
