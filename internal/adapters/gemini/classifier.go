package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const providerName = "gemini"

// Classifier is a core.Classifier implementation using Google Gemini as the
// zero-shot classification backend.
type Classifier struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewClassifier creates a new Gemini-backed zero-shot classifier.
func NewClassifier(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	var labels strings.Builder
	for _, l := range core.ClassificationLabels {
		labels.WriteString("- " + l + "\n")
	}

	return &Classifier{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are a zero-shot text classifier for social engineering detection.
Score the following text against each of these semantic labels independently:
` + labels.String() + `
Respond with a JSON object that maps every label to a probability between 0 and 1.
Scores are independent and need not sum to 1.

Text:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// Close closes the underlying Gemini client.
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify scores the text against the fixed label set.
func (c *Classifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)
	prompt := fmt.Sprintf(c.promptFormat, processed)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: fmt.Errorf("failed to generate content: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &core.ClassificationError{Provider: providerName, Err: fmt.Errorf("empty response")}
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	scores, err := parseLabelScores(responseText.String())
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
		v := scores[label]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[label] = v
	}
	return out, nil
}
