package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/eml"
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/factory"
	"github.com/Syedwafeeq/DECEPTA/internal/logging"
	"github.com/Syedwafeeq/DECEPTA/internal/ports"
	"github.com/Syedwafeeq/DECEPTA/internal/trust"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTranscriberFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register transcriber
	if err := container.Provide(func(f *factory.TranscriberFactory) (core.Transcriber, error) {
		return f.CreateTranscriber()
	}); err != nil {
		return nil, err
	}

	// Register analysis store and persistence flag
	if err := container.Provide(func(f *factory.StoreFactory) (core.AnalysisStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) bool {
		return f.IsPersistenceEnabled()
	}); err != nil {
		return nil, err
	}

	// Register trusted sender checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustChecker {
		trustCfg := cfg.GetTrust()
		if len(trustCfg.Senders) > 0 || len(trustCfg.Domains) > 0 {
			logger.Info("Loaded trusted sender exceptions",
				zap.Strings("senders", trustCfg.Senders),
				zap.Strings("domains", trustCfg.Domains))
		}
		return trust.NewChecker(trustCfg.Senders, trustCfg.Domains, logger)
	}); err != nil {
		return nil, err
	}

	// Register text risk scorer
	if err := container.Provide(core.NewTextRiskScorer); err != nil {
		return nil, err
	}

	// Register email decoder
	if err := container.Provide(eml.NewDecoder); err != nil {
		return nil, err
	}

	// Register detection service
	if err := container.Provide(core.NewDetectionService); err != nil {
		return nil, err
	}

	// Register message filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.MessageFilter, error) {
		return f.CreateMessageFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
