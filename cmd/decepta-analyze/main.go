package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/eml"
	"github.com/Syedwafeeq/DECEPTA/internal/adapters/filter"
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the analysis
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main analysis function that gets all dependencies injected
func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	service *core.DetectionService,
	decoder *eml.Decoder,
	classifier core.Classifier,
) error {
	defer logger.Sync()

	ctx := context.Background()
	startTime := time.Now()

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("classifier.provider"))

	var report *core.AnalysisReport
	var err error

	switch {
	case flags.AudioFile != "":
		logger.Info("Analyzing audio file", zap.String("file", flags.AudioFile))
		var transcript string
		transcript, report, err = service.AnalyzeAudio(ctx, flags.AudioFile)
		if err != nil {
			return fmt.Errorf("failed to analyze audio: %w", err)
		}
		fmt.Printf("Transcript: %s\n", transcript)

	case flags.TextFile != "":
		logger.Info("Analyzing text file", zap.String("file", flags.TextFile))
		data, readErr := os.ReadFile(flags.TextFile)
		if readErr != nil {
			return fmt.Errorf("failed to read text file: %w", readErr)
		}
		report, err = service.AnalyzeText(ctx, string(data))
		if err != nil {
			return fmt.Errorf("failed to analyze text: %w", err)
		}

	default:
		var email *core.ParsedEmail
		if flags.EmailFile != "" {
			logger.Info("Reading email from file", zap.String("file", flags.EmailFile))
			email, err = decoder.DecodeFile(flags.EmailFile)
		} else {
			logger.Info("Reading email from stdin")
			email, err = decoder.Decode(bufio.NewReader(os.Stdin))
		}
		if err != nil {
			return fmt.Errorf("failed to decode email: %w", err)
		}

		fmt.Printf("\n=== Email Summary ===\n")
		fmt.Printf("From: %s\n", email.From)
		fmt.Printf("To: %s\n", email.To)
		fmt.Printf("Subject: %s\n", email.Subject)
		fmt.Printf("Body length: %d bytes\n", len(email.Body))

		report, err = service.AnalyzeEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to analyze email: %w", err)
		}
	}

	filter.PrintReport(report)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	return nil
}
