package store

import (
	"context"
	"testing"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

func TestMemoryStoreDedupByContentHash(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	first := &core.StoredAnalysis{ID: "one", ContentHash: "abc", Decision: core.DecisionWarn, Score: 0.5}
	if err := s.SaveAnalysis(ctx, first); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// Same content hash, different verdict. The original record wins.
	second := &core.StoredAnalysis{ID: "two", ContentHash: "abc", Decision: core.DecisionBlock, Score: 0.9}
	if err := s.SaveAnalysis(ctx, second); err != nil {
		t.Fatalf("duplicate save failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("stored %d records, want 1", s.Len())
	}
	rec, ok := s.GetAnalysis("abc")
	if !ok {
		t.Fatalf("record not found")
	}
	if rec.ID != "one" || rec.Decision != core.DecisionWarn {
		t.Fatalf("duplicate overwrote original: %+v", rec)
	}
}

func TestMemoryStoreCopiesRecord(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	rec := &core.StoredAnalysis{ID: "one", ContentHash: "abc"}
	if err := s.SaveAnalysis(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	rec.ID = "mutated"

	stored, _ := s.GetAnalysis("abc")
	if stored.ID != "one" {
		t.Fatalf("caller mutation leaked into store: %+v", stored)
	}
}

func TestMemoryStoreTrustedSenders(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	trusted, err := s.IsTrustedSender(ctx, "ops@corp.example")
	if err != nil || trusted {
		t.Fatalf("unexpected initial state: trusted=%v err=%v", trusted, err)
	}

	if err := s.AddTrustedSender(ctx, "  Ops@Corp.Example  "); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	trusted, err = s.IsTrustedSender(ctx, "ops@corp.example")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !trusted {
		t.Fatalf("normalized sender not trusted")
	}
}
