package core

import (
	"context"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"
)

const (
	// Each distinct cue family contributes cueWeight to the score, capped at
	// cueScoreCap so cues alone cannot saturate risk.
	cueWeight   = 0.15
	cueScoreCap = 0.6

	confidenceHighMin   = 0.75
	confidenceMediumMin = 0.4
)

// TextRiskScorer composes cue extraction and the semantic classifier into a
// single normalized risk score. It is stateless and safe for concurrent use
// as long as the injected classifier is.
type TextRiskScorer struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewTextRiskScorer creates a new text risk scorer.
func NewTextRiskScorer(classifier Classifier, logger *zap.Logger) *TextRiskScorer {
	return &TextRiskScorer{
		classifier: classifier,
		logger:     logger,
	}
}

// Score analyzes one text unit (email blob, transcript, chat message). A
// classifier failure surfaces as ClassificationError; there is no silent
// zero-score fallback.
func (s *TextRiskScorer) Score(ctx context.Context, text string) (*TextRiskResult, error) {
	res, err := s.classifier.Classify(ctx, text)
	if err != nil {
		var cerr *ClassificationError
		if errors.As(err, &cerr) {
			return nil, err
		}
		return nil, &ClassificationError{Provider: "unknown", Err: err}
	}

	base := math.Max(res.Scores[LabelPhishingAttempt],
		math.Max(res.Scores[LabelCredentialHarvesting], res.Scores[LabelAuthorityImpersonation]))

	cues := ExtractCues(text)
	cueScore := math.Min(float64(cues.Len())*cueWeight, cueScoreCap)
	score := Round2(math.Min(base+cueScore, 1.0))

	topIntent := ""
	if len(res.Labels) > 0 {
		topIntent = res.Labels[0]
	}

	result := &TextRiskResult{
		PhishingScore: score,
		DetectedCues:  cues,
		TopIntent:     topIntent,
		Confidence:    ConfidenceFor(score),
	}

	s.logger.Debug("Scored text risk",
		zap.Float64("base_score", base),
		zap.Float64("cue_score", cueScore),
		zap.Float64("phishing_score", result.PhishingScore),
		zap.Strings("cues", cues.Sorted()),
		zap.String("top_intent", topIntent))

	return result, nil
}

// ConfidenceFor maps a phishing score onto its confidence band. The 0.40 and
// 0.75 boundaries are inclusive lower bounds for medium and high.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= confidenceHighMin:
		return ConfidenceHigh
	case score >= confidenceMediumMin:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// RankLabels orders labels by descending probability. Ties keep the canonical
// classification label order so ranking is deterministic.
func RankLabels(scores map[string]float64) []string {
	labels := make([]string, 0, len(ClassificationLabels))
	for _, l := range ClassificationLabels {
		if _, ok := scores[l]; ok {
			labels = append(labels, l)
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return scores[labels[i]] > scores[labels[j]]
	})
	return labels
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
