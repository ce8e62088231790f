package core

import (
	"context"
)

// ClassifierResult is the raw zero-shot output: one independent probability
// per label. Labels holds the provider's own ranking, highest first; the
// scorer takes the first entry without re-sorting.
type ClassifierResult struct {
	Scores   map[string]float64
	Labels   []string
	Provider string
}

// Classifier scores text against the fixed classification label set. It must
// tolerate arbitrarily long text; truncation is the adapter's concern.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (*ClassifierResult, error)
}

// Transcriber converts an audio file into a text transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// AnalysisStore persists finished analyses and the trusted-sender allow-list.
type AnalysisStore interface {
	// SaveAnalysis stores a record; a repeated content hash is a no-op.
	SaveAnalysis(ctx context.Context, rec *StoredAnalysis) error

	// IsTrustedSender reports whether the sender is on the allow-list.
	IsTrustedSender(ctx context.Context, sender string) (bool, error)

	// AddTrustedSender puts the sender on the allow-list.
	AddTrustedSender(ctx context.Context, sender string) error

	// Close releases underlying resources.
	Close() error
}
