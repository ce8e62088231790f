package core

import (
	"strings"
)

// Fusion weights and thresholds.
const (
	textRiskWeight   = 0.7
	behavioralWeight = 0.3

	blockThreshold    = 0.75
	warnThreshold     = 0.4
	escalationWarnMin = 0.25
)

// highRiskCues escalate the decision ladder even at low numeric score.
var highRiskCues = []string{
	CueCredentialRequest,
	CueAuthorityImpersonation,
	CueUrgency,
}

// Closing explanation sentences, keyed by decision.
const (
	explainAllow = "No immediate high-risk phishing indicators were detected."
	explainWarn  = "This content shows signs of social engineering. Verify the source before taking any action."
	explainBlock = "High confidence phishing detected. Do not interact with this content."
)

// DecisionEngine fuses text risk and behavioral risk into one decision. It is
// a pure computation over already-validated inputs: identical inputs always
// produce identical records.
type DecisionEngine struct{}

// NewDecisionEngine creates a new decision engine.
func NewDecisionEngine() *DecisionEngine {
	return &DecisionEngine{}
}

// Decide fuses the two evidence scores (0.7 text, 0.3 behavioral) and applies
// the cue-based escalation rule: any high-risk cue forces the WARN/ALLOW
// ladder at the 0.25 boundary, capped at WARN so keyword presence alone never
// auto-blocks. Without a high-risk cue the plain ladder applies (>=0.75
// BLOCK, >=0.4 WARN, else ALLOW).
func (e *DecisionEngine) Decide(textRisk *TextRiskResult, behavioral *BehavioralRiskResult) *DecisionRecord {
	final := Round2(textRiskWeight*textRisk.PhishingScore + behavioralWeight*behavioral.Score)

	var decision Decision
	if hasHighRiskCue(textRisk.DetectedCues) {
		if final >= escalationWarnMin {
			decision = DecisionWarn
		} else {
			decision = DecisionAllow
		}
	} else {
		switch {
		case final >= blockThreshold:
			decision = DecisionBlock
		case final >= warnThreshold:
			decision = DecisionWarn
		default:
			decision = DecisionAllow
		}
	}

	explanation := make([]string, 0, 3)
	if textRisk.DetectedCues.Len() > 0 {
		explanation = append(explanation,
			"The message uses social engineering tactics such as: "+strings.Join(textRisk.DetectedCues.Sorted(), ", "))
	}
	if len(behavioral.Flags) > 0 {
		explanation = append(explanation,
			"Suspicious behavior detected: "+strings.Join(behavioral.Flags, ", "))
	}
	switch decision {
	case DecisionAllow:
		explanation = append(explanation, explainAllow)
	case DecisionWarn:
		explanation = append(explanation, explainWarn)
	default:
		explanation = append(explanation, explainBlock)
	}

	return &DecisionRecord{
		FinalRiskScore: final,
		Decision:       decision,
		Explanation:    explanation,
	}
}

func hasHighRiskCue(cues CueSet) bool {
	for _, c := range highRiskCues {
		if cues.Has(c) {
			return true
		}
	}
	return false
}
