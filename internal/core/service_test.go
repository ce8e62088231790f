package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// recordingStore captures saved analyses and serves a static allow-list.
type recordingStore struct {
	saved   []*StoredAnalysis
	trusted map[string]bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{trusted: map[string]bool{}}
}

func (s *recordingStore) SaveAnalysis(ctx context.Context, rec *StoredAnalysis) error {
	s.saved = append(s.saved, rec)
	return nil
}

func (s *recordingStore) IsTrustedSender(ctx context.Context, sender string) (bool, error) {
	return s.trusted[sender], nil
}

func (s *recordingStore) AddTrustedSender(ctx context.Context, sender string) error {
	s.trusted[sender] = true
	return nil
}

func (s *recordingStore) Close() error { return nil }

type stubTranscriber struct {
	transcript string
	err        error
}

func (t *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return t.transcript, t.err
}

func phishingScores() map[string]float64 {
	return map[string]float64{
		LabelPhishingAttempt:        0.8,
		LabelCredentialHarvesting:   0.6,
		LabelAuthorityImpersonation: 0.3,
		LabelUrgentRequest:          0.5,
		LabelLegitimateEmail:        0.1,
	}
}

func newServiceForTest(classifier Classifier, store AnalysisStore, persist bool) *DetectionService {
	scorer := NewTextRiskScorer(classifier, zap.NewNop())
	return NewDetectionService(scorer, nil, store, nil, zap.NewNop(), persist)
}

func phishingEmail() *ParsedEmail {
	return &ParsedEmail{
		From:    "accounts@paypa1-security.com",
		To:      "victim@example.com",
		Subject: "Urgent: verify your account",
		ReplyTo: "collector@evil.net",
		Body:    "Your account is suspended. Click http://203.0.113.5/login and enter your password.",
		URLs:    []string{"http://203.0.113.5/login"},
	}
}

func TestAnalyzeEmailFusesBothChannels(t *testing.T) {
	store := newRecordingStore()
	svc := newServiceForTest(&stubClassifier{scores: phishingScores()}, store, true)

	report, err := svc.AnalyzeEmail(context.Background(), phishingEmail())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Source != SourceEngine {
		t.Fatalf("source = %q, want engine", report.Source)
	}
	if report.Bypassed() {
		t.Fatalf("engine report marked as bypassed")
	}
	if !report.Behavioral.HasFlag(FlagFromReplyToMismatch) || !report.Behavioral.HasFlag(FlagIPBasedLink) {
		t.Fatalf("behavioral flags = %v", report.Behavioral.Flags)
	}
	if report.Record.Decision != DecisionWarn {
		// High-risk cues cap the decision at WARN.
		t.Fatalf("decision = %v (score %v), want WARN", report.Record.Decision, report.Record.FinalRiskScore)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(store.saved))
	}
	if store.saved[0].SenderDomain != "paypa1-security.com" {
		t.Fatalf("sender domain = %q", store.saved[0].SenderDomain)
	}
}

func TestAnalyzeEmailTrustedSenderBypass(t *testing.T) {
	store := newRecordingStore()
	store.trusted["accounts@paypa1-security.com"] = true
	svc := newServiceForTest(&stubClassifier{err: errors.New("must not be called")}, store, false)

	report, err := svc.AnalyzeEmail(context.Background(), phishingEmail())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Source != SourceTrustedSender || !report.Bypassed() {
		t.Fatalf("source = %q, want trusted_sender bypass", report.Source)
	}
	if report.Record.Decision != DecisionAllow {
		t.Fatalf("decision = %v, want ALLOW", report.Record.Decision)
	}
	if report.Record.FinalRiskScore != 0.0 {
		t.Fatalf("score = %v, want 0", report.Record.FinalRiskScore)
	}
}

func TestAnalyzeEmailClassifierFailureAborts(t *testing.T) {
	store := newRecordingStore()
	svc := newServiceForTest(&stubClassifier{err: errors.New("provider down")}, store, true)

	report, err := svc.AnalyzeEmail(context.Background(), phishingEmail())
	if report != nil {
		t.Fatalf("expected no report on classifier failure, got %+v", report)
	}
	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("failed analysis was persisted: %v", store.saved)
	}
}

func TestAnalyzeEmailAuthResultsAdvisory(t *testing.T) {
	email := phishingEmail()
	email.AuthResults = "mx.example.com; spf=fail; dkim=pass; dmarc=fail"
	svc := newServiceForTest(&stubClassifier{scores: phishingScores()}, nil, false)

	report, err := svc.AnalyzeEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Auth == nil {
		t.Fatalf("auth result missing")
	}
	if report.Auth.SPF != "fail" || report.Auth.DMARC != "fail" {
		t.Fatalf("auth verdicts = %+v", report.Auth)
	}

	// The advisory auth score must not move the fused decision score.
	record := NewDecisionEngine().Decide(report.TextRisk, report.Behavioral)
	if record.FinalRiskScore != report.Record.FinalRiskScore {
		t.Fatalf("auth result leaked into fusion: %v vs %v",
			record.FinalRiskScore, report.Record.FinalRiskScore)
	}
}

func TestAnalyzeTextHasNoBehavioralEvidence(t *testing.T) {
	svc := newServiceForTest(&stubClassifier{scores: phishingScores()}, nil, false)

	report, err := svc.AnalyzeText(context.Background(),
		"urgent: confirm your password at http://203.0.113.5/login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Raw text carries no structural metadata, URLs in prose do not count.
	if report.Behavioral.Score != 0.0 || len(report.Behavioral.Flags) != 0 {
		t.Fatalf("behavioral evidence from raw text: %+v", report.Behavioral)
	}
	if report.TextRisk.DetectedCues.Len() == 0 {
		t.Fatalf("expected linguistic cues from transcript text")
	}
}

func TestAnalyzeAudioWithoutTranscriber(t *testing.T) {
	svc := newServiceForTest(&stubClassifier{scores: phishingScores()}, nil, false)

	_, _, err := svc.AnalyzeAudio(context.Background(), "/tmp/call.wav")
	var terr *TranscriptionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TranscriptionError, got %v", err)
	}
}

func TestAnalyzeAudioRunsTextPipeline(t *testing.T) {
	scorer := NewTextRiskScorer(&stubClassifier{scores: phishingScores()}, zap.NewNop())
	svc := NewDetectionService(scorer,
		&stubTranscriber{transcript: "this is your bank, confirm your pin immediately"},
		nil, nil, zap.NewNop(), false)

	transcript, report, err := svc.AnalyzeAudio(context.Background(), "/tmp/call.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcript == "" {
		t.Fatalf("transcript not returned")
	}
	if !report.TextRisk.DetectedCues.Has(CueAuthorityImpersonation) {
		t.Fatalf("cues = %v, want authority_impersonation", report.TextRisk.DetectedCues.Sorted())
	}
}

func TestTrustSenderPersistsException(t *testing.T) {
	store := newRecordingStore()
	svc := newServiceForTest(&stubClassifier{scores: phishingScores()}, store, false)

	if err := svc.TrustSender(context.Background(), "ops@corp.example"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.trusted["ops@corp.example"] {
		t.Fatalf("exception not persisted")
	}
}

func TestSenderDomainExtraction(t *testing.T) {
	tests := []struct {
		from, want string
	}{
		{"alice@example.com", "example.com"},
		{"Alice <alice@example.com>", "example.com"},
		{"no-at-sign", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := senderDomain(tt.from); got != tt.want {
			t.Fatalf("senderDomain(%q) = %q, want %q", tt.from, got, tt.want)
		}
	}
}
