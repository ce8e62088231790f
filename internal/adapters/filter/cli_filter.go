package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

// CliFilter prints analysis results to stdout for one-shot invocations.
type CliFilter struct {
	service *core.DetectionService
	logger  *zap.Logger
	verbose bool
}

// NewCliFilter creates a new CLI filter.
func NewCliFilter(service *core.DetectionService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail analyzes one decoded message and prints the report.
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.ParsedEmail) (*core.AnalysisReport, error) {
	f.logger.Debug("Processing message", zap.String("sender", email.From))

	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("From: %s\n", email.From)
	fmt.Printf("To: %s\n", email.To)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	if f.verbose {
		preview := email.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	report, err := f.service.AnalyzeEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	PrintReport(report)
	return report, nil
}

// Start is a no-op for the CLI filter.
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter.
func (f *CliFilter) Stop() error {
	return nil
}

// PrintReport renders an analysis report for terminal output.
func PrintReport(report *core.AnalysisReport) {
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Decision: %s\n", report.Record.Decision)
	fmt.Printf("Final risk score: %.2f\n", report.Record.FinalRiskScore)
	fmt.Printf("Source: %s\n", report.Source)
	fmt.Printf("Phishing score: %.2f (%s confidence)\n", report.TextRisk.PhishingScore, report.TextRisk.Confidence)
	fmt.Printf("Top intent: %s\n", report.TextRisk.TopIntent)

	if cues := report.TextRisk.DetectedCues.Sorted(); len(cues) > 0 {
		fmt.Printf("Cues: %s\n", strings.Join(cues, ", "))
	}
	if len(report.Behavioral.Flags) > 0 {
		fmt.Printf("Behavioral flags: %s (score %.2f)\n",
			strings.Join(report.Behavioral.Flags, ", "), report.Behavioral.Score)
	}
	if report.Auth != nil {
		fmt.Printf("Authentication: spf=%s dkim=%s dmarc=%s\n",
			report.Auth.SPF, report.Auth.DKIM, report.Auth.DMARC)
		if len(report.Auth.Flags) > 0 {
			fmt.Printf("Authentication flags: %s\n", strings.Join(report.Auth.Flags, ", "))
		}
	}

	fmt.Printf("\nExplanation:\n")
	for _, line := range report.Record.Explanation {
		fmt.Printf("  - %s\n", line)
	}
}
