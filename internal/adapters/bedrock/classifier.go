package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

const providerName = "bedrock"

// Classifier is a core.Classifier implementation using Amazon Bedrock as the
// zero-shot classification backend.
type Classifier struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// NewClassifier creates a new Bedrock-backed zero-shot classifier.
func NewClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	var labels strings.Builder
	for _, l := range core.ClassificationLabels {
		labels.WriteString("- " + l + "\n")
	}

	return &Classifier{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
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

func (c *Classifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.")
}

func (c *Classifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

// Classify scores the text against the fixed label set.
func (c *Classifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)
	prompt := fmt.Sprintf(c.promptFormat, processed)

	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: fmt.Errorf("failed to marshal request payload: %w", err)}
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: fmt.Errorf("failed to invoke model: %w", err)}
	}

	responseText, err := c.extractResponseText(resp.Body)
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: err}
	}

	scores, err := parseLabelScores(responseText)
	if err != nil {
		return nil, &core.ClassificationError{Provider: providerName, Err: err}
	}

	c.logger.Debug("Classified text",
		zap.String("model", c.modelID),
		zap.Any("scores", scores))

	return &core.ClassifierResult{
		Scores:   scores,
		Labels:   core.RankLabels(scores),
		Provider: providerName,
	}, nil
}

// extractResponseText pulls the generated text out of the model-specific
// response envelope.
func (c *Classifier) extractResponseText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	for _, candidate := range []string{genericResp.Output, genericResp.Text, genericResp.Response} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no recognizable text field in model response")
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
