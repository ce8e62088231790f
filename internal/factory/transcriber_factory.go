package factory

import (
	"fmt"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/openai"
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
	"go.uber.org/zap"
)

// TranscriberFactory creates speech-to-text clients for the voice channel.
type TranscriberFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewTranscriberFactory creates a new transcriber factory.
func NewTranscriberFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *TranscriberFactory {
	return &TranscriberFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTranscriber creates a transcriber based on the configured provider.
// Provider "none" disables the voice channel.
func (f *TranscriberFactory) CreateTranscriber() (core.Transcriber, error) {
	provider := f.cfg.GetTranscriber().Provider

	switch provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateTranscriber()
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported transcriber provider: %s", provider)
	}
}
