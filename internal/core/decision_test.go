package core

import (
	"reflect"
	"testing"
)

func decideFor(t *testing.T, textScore float64, cues CueSet, behavioral *BehavioralRiskResult) *DecisionRecord {
	t.Helper()
	return NewDecisionEngine().Decide(&TextRiskResult{
		PhishingScore: textScore,
		DetectedCues:  cues,
		Confidence:    ConfidenceFor(textScore),
	}, behavioral)
}

func TestDecideFusesWeightedScores(t *testing.T) {
	rec := decideFor(t, 0.5, NewCueSet(), &BehavioralRiskResult{Flags: []string{}, Score: 0.5})
	if rec.FinalRiskScore != 0.5 {
		t.Fatalf("final score = %v, want 0.5", rec.FinalRiskScore)
	}
	if rec.Decision != DecisionWarn {
		t.Fatalf("decision = %v, want WARN", rec.Decision)
	}
}

func TestDecidePlainLadder(t *testing.T) {
	tests := []struct {
		text, behavioral float64
		want             Decision
	}{
		{0.9, 0.5, DecisionBlock},   // 0.78
		{0.75, 0.75, DecisionBlock}, // exactly at the block boundary
		{0.74, 0.74, DecisionWarn},
		{0.4, 0.4, DecisionWarn}, // exactly at the warn boundary
		{0.39, 0.39, DecisionAllow},
		{0.0, 0.0, DecisionAllow},
	}
	for _, tt := range tests {
		rec := decideFor(t, tt.text, NewCueSet(), &BehavioralRiskResult{Flags: []string{}, Score: tt.behavioral})
		if rec.Decision != tt.want {
			t.Fatalf("Decide(text=%v, behavioral=%v) = %v (score %v), want %v",
				tt.text, tt.behavioral, rec.Decision, rec.FinalRiskScore, tt.want)
		}
	}
}

func TestDecideHighRiskCueEscalatesToWarn(t *testing.T) {
	// 0.7*0.95 + 0.3*0.4 lands above the block threshold, but a high-risk
	// cue caps the outcome at WARN.
	cues := NewCueSet(CueUrgency, CueCredentialRequest, CueActionRequest)
	rec := decideFor(t, 0.95, cues, &BehavioralRiskResult{
		Flags: []string{FlagFromReplyToMismatch, FlagIPBasedLink},
		Score: 0.4,
	})
	if rec.FinalRiskScore < blockThreshold {
		t.Fatalf("final score = %v, expected it above the block threshold", rec.FinalRiskScore)
	}
	if rec.Decision != DecisionWarn {
		t.Fatalf("decision = %v, want WARN under cue escalation", rec.Decision)
	}
}

func TestDecideEscalationBoundary(t *testing.T) {
	cues := NewCueSet(CueCredentialRequest)

	// Exactly at the escalation boundary.
	rec := decideFor(t, 0.25, cues, &BehavioralRiskResult{Flags: []string{}, Score: 0.25})
	if rec.FinalRiskScore != 0.25 || rec.Decision != DecisionWarn {
		t.Fatalf("at boundary: score=%v decision=%v, want 0.25 WARN", rec.FinalRiskScore, rec.Decision)
	}

	// Just below it the high-risk cue is not enough.
	rec = decideFor(t, 0.2, cues, &BehavioralRiskResult{Flags: []string{}, Score: 0.2})
	if rec.Decision != DecisionAllow {
		t.Fatalf("below boundary: decision=%v (score %v), want ALLOW", rec.Decision, rec.FinalRiskScore)
	}
}

func TestDecideEscalationNeverBlocks(t *testing.T) {
	cues := NewCueSet(CueAuthorityImpersonation)
	rec := decideFor(t, 1.0, cues, &BehavioralRiskResult{Flags: []string{FlagShortenedURL}, Score: 1.0})
	if rec.FinalRiskScore != 1.0 {
		t.Fatalf("final score = %v, want 1.0", rec.FinalRiskScore)
	}
	if rec.Decision != DecisionWarn {
		t.Fatalf("decision = %v, want WARN cap even at maximum score", rec.Decision)
	}
}

func TestDecideActionRequestAloneDoesNotEscalate(t *testing.T) {
	cues := NewCueSet(CueActionRequest)

	rec := decideFor(t, 0.3, cues, &BehavioralRiskResult{Flags: []string{}, Score: 0.3})
	if rec.Decision != DecisionAllow {
		t.Fatalf("low score with action_request: decision=%v, want ALLOW", rec.Decision)
	}

	rec = decideFor(t, 0.9, cues, &BehavioralRiskResult{Flags: []string{}, Score: 0.9})
	if rec.Decision != DecisionBlock {
		t.Fatalf("high score with action_request: decision=%v, want BLOCK", rec.Decision)
	}
}

func TestDecideIdempotent(t *testing.T) {
	cues := NewCueSet(CueUrgency, CueActionRequest)
	behavioral := &BehavioralRiskResult{Flags: []string{FlagIPBasedLink}, Score: 0.2}
	textRisk := &TextRiskResult{PhishingScore: 0.65, DetectedCues: cues, Confidence: ConfidenceMedium}

	engine := NewDecisionEngine()
	first := engine.Decide(textRisk, behavioral)
	second := engine.Decide(textRisk, behavioral)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different records:\n%+v\n%+v", first, second)
	}
}

func TestDecideExplanationOrdering(t *testing.T) {
	cues := NewCueSet(CueUrgency, CueCredentialRequest)
	rec := decideFor(t, 0.6, cues, &BehavioralRiskResult{
		Flags: []string{FlagFromReplyToMismatch, FlagShortenedURL},
		Score: 0.2,
	})

	want := []string{
		"The message uses social engineering tactics such as: credential_request, urgency",
		"Suspicious behavior detected: from_reply_to_mismatch, shortened_url",
		"This content shows signs of social engineering. Verify the source before taking any action.",
	}
	if !reflect.DeepEqual(rec.Explanation, want) {
		t.Fatalf("explanation = %#v, want %#v", rec.Explanation, want)
	}
}

func TestDecideAllowExplanationNoSignals(t *testing.T) {
	rec := decideFor(t, 0.1, NewCueSet(), &BehavioralRiskResult{Flags: []string{}, Score: 0.0})
	want := []string{"No immediate high-risk phishing indicators were detected."}
	if !reflect.DeepEqual(rec.Explanation, want) {
		t.Fatalf("explanation = %#v, want %#v", rec.Explanation, want)
	}
}

func TestDecideBlockExplanation(t *testing.T) {
	rec := decideFor(t, 0.9, NewCueSet(), &BehavioralRiskResult{Flags: []string{FlagIPBasedLink}, Score: 0.8})
	if rec.Decision != DecisionBlock {
		t.Fatalf("decision = %v, want BLOCK", rec.Decision)
	}
	last := rec.Explanation[len(rec.Explanation)-1]
	if last != "High confidence phishing detected. Do not interact with this content." {
		t.Fatalf("closing sentence = %q", last)
	}
}
