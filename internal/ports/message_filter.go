package ports

import (
	"context"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
)

// MessageFilter is the serving surface that feeds structured messages into
// the detection service.
type MessageFilter interface {
	// ProcessEmail analyzes one decoded message and returns the report.
	ProcessEmail(ctx context.Context, email *core.ParsedEmail) (*core.AnalysisReport, error)

	// Start starts the filter service.
	Start() error

	// Stop stops the filter service.
	Stop() error
}
