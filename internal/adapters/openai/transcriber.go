package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Transcriber converts call recordings to text through the hosted Whisper
// API. It implements core.Transcriber.
type Transcriber struct {
	client    *openai.Client
	modelName string
	logger    *zap.Logger
}

// NewTranscriber creates a new Whisper transcriber.
func NewTranscriber(client *openai.Client, modelName string, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}
}

// Transcribe converts the audio file at audioPath into a transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.modelName,
		FilePath: audioPath,
	})
	if err != nil {
		return "", &core.TranscriptionError{Reason: "whisper request failed", Err: err}
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return "", &core.TranscriptionError{Reason: fmt.Sprintf("no speech recognized in %s", audioPath)}
	}

	t.logger.Debug("Transcribed audio",
		zap.String("file", audioPath),
		zap.Int("transcript_chars", len(transcript)))

	return transcript, nil
}
