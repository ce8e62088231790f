package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

// Classifier is a core.Classifier implementation backed by OpenAI chat
// completions acting as a zero-shot classifier.
type Classifier struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewClassifier creates a new OpenAI-backed zero-shot classifier.
func NewClassifier(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	return &Classifier{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  zeroShotPromptFormat(),
	}
}

// zeroShotPromptFormat builds the shared zero-shot scoring prompt over the
// fixed classification label set.
func zeroShotPromptFormat() string {
	var labels strings.Builder
	for _, l := range core.ClassificationLabels {
		labels.WriteString("- " + l + "\n")
	}

	return `You are a zero-shot text classifier for social engineering detection.
Score the following text against each of these semantic labels independently:
` + labels.String() + `
Respond with a JSON object that maps every label to a probability between 0 and 1.
Scores are independent and need not sum to 1.

Text:
%s

Respond only with the JSON object and nothing else.`
}

// Classify scores the text against the fixed label set.
func (c *Classifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)
	prompt := fmt.Sprintf(c.promptFormat, processed)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a zero-shot text classifier. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &core.ClassificationError{Provider: providerName, Err: fmt.Errorf("empty response")}
	}

	scores, err := parseLabelScores(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: err}
	}

	c.logger.Debug("Classified text",
		zap.String("model", c.modelName),
		zap.Any("scores", scores))

	return &core.ClassifierResult{
		Scores:   scores,
		Labels:   core.RankLabels(scores),
		Provider: providerName,
	}, nil
}

// parseLabelScores parses the label-to-probability JSON object, tolerating
// chatter around the JSON by extracting the outermost brace pair.
func parseLabelScores(responseText string) (map[string]float64, error) {
	var scores map[string]float64
	if err := json.Unmarshal([]byte(responseText), &scores); err != nil {
		start := strings.Index(responseText, "{")
		end := strings.LastIndex(responseText, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in classifier response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[start:end+1]), &scores); err != nil {
			return nil, fmt.Errorf("failed to parse classifier response as JSON: %w", err)
		}
	}

	out := make(map[string]float64, len(core.ClassificationLabels))
	for _, label := range core.ClassificationLabels {
		out[label] = clamp01(scores[label])
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
