package openai

import (
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates OpenAI-backed classifiers and transcribers.
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAI adapters.
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a new zero-shot classifier.
func (f *Factory) CreateClassifier() (core.Classifier, error) {
	openaiCfg := f.cfg.GetOpenAI()
	client := openai.NewClient(openaiCfg.APIKey)

	return NewClassifier(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxTextSize,
		f.logger,
		f.textProcessor,
	), nil
}

// CreateTranscriber creates a new Whisper transcriber.
func (f *Factory) CreateTranscriber() (core.Transcriber, error) {
	openaiCfg := f.cfg.GetOpenAI()
	transcriberCfg := f.cfg.GetTranscriber()
	client := openai.NewClient(openaiCfg.APIKey)

	return NewTranscriber(client, transcriberCfg.ModelName, f.logger), nil
}
