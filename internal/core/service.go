package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrustChecker decides whether a sender is exempt from analysis. The static
// config allow-list and the persisted exception table both satisfy it.
type TrustChecker interface {
	IsTrusted(sender string) bool
}

// DetectionService runs the channel pipelines end to end: normalize evidence,
// score it, fuse it, persist the outcome. Each call is self-contained; the
// service holds no per-analysis state and is safe for concurrent use.
type DetectionService struct {
	scorer      *TextRiskScorer
	behavioral  *BehavioralAnalyzer
	auth        *AuthResultsAnalyzer
	engine      *DecisionEngine
	transcriber Transcriber
	store       AnalysisStore
	trust       TrustChecker
	logger      *zap.Logger
	persist     bool
}

// NewDetectionService creates a new detection service. transcriber and trust
// may be nil when the host does not serve the voice channel or carries no
// static allow-list.
func NewDetectionService(
	scorer *TextRiskScorer,
	transcriber Transcriber,
	store AnalysisStore,
	trust TrustChecker,
	logger *zap.Logger,
	persist bool,
) *DetectionService {
	return &DetectionService{
		scorer:      scorer,
		behavioral:  NewBehavioralAnalyzer(),
		auth:        NewAuthResultsAnalyzer(),
		engine:      NewDecisionEngine(),
		transcriber: transcriber,
		store:       store,
		trust:       trust,
		logger:      logger,
		persist:     persist,
	}
}

// AnalyzeEmail runs the structured-message pipeline: combined header+body
// text through the text risk scorer, decoded structural metadata through the
// behavioral analyzer, both fused by the decision engine.
func (s *DetectionService) AnalyzeEmail(ctx context.Context, email *ParsedEmail) (*AnalysisReport, error) {
	if trusted, err := s.isTrusted(ctx, email.From); err != nil {
		s.logger.Error("Trusted-sender lookup failed", zap.Error(err), zap.String("sender", email.From))
	} else if trusted {
		s.logger.Info("Skipping analysis for trusted sender",
			zap.String("sender", email.From),
			zap.String("action", "allowlist_bypass"))
		report := trustedSenderReport()
		s.saveAnalysis(ctx, report, emailContentHash(email), senderDomain(email.From))
		return report, nil
	}

	text := BuildEmailText(email)
	textRisk, err := s.scorer.Score(ctx, text)
	if err != nil {
		return nil, err
	}

	behavioral := s.behavioral.Analyze(email.Structural())
	record := s.engine.Decide(textRisk, behavioral)

	report := &AnalysisReport{
		ID:         uuid.NewString(),
		Source:     SourceEngine,
		TextRisk:   textRisk,
		Behavioral: behavioral,
		Record:     record,
		AnalyzedAt: time.Now().UTC(),
	}
	if strings.TrimSpace(email.AuthResults) != "" {
		report.Auth = s.auth.Analyze(email.AuthResults)
	}

	s.logger.Info("Email analyzed",
		zap.String("sender_domain", senderDomain(email.From)),
		zap.String("decision", string(record.Decision)),
		zap.Float64("risk_score", record.FinalRiskScore),
		zap.Strings("cues", textRisk.DetectedCues.Sorted()),
		zap.Strings("flags", behavioral.Flags))

	s.saveAnalysis(ctx, report, emailContentHash(email), senderDomain(email.From))
	return report, nil
}

// AnalyzeText runs the raw-text pipeline used for voice transcripts and chat
// messages. The behavioral analyzer receives no structural metadata and
// always yields the zero-evidence result.
func (s *DetectionService) AnalyzeText(ctx context.Context, text string) (*AnalysisReport, error) {
	textRisk, err := s.scorer.Score(ctx, text)
	if err != nil {
		return nil, err
	}

	behavioral := s.behavioral.Analyze(nil)
	record := s.engine.Decide(textRisk, behavioral)

	report := &AnalysisReport{
		ID:         uuid.NewString(),
		Source:     SourceEngine,
		TextRisk:   textRisk,
		Behavioral: behavioral,
		Record:     record,
		AnalyzedAt: time.Now().UTC(),
	}

	s.logger.Info("Text analyzed",
		zap.String("decision", string(record.Decision)),
		zap.Float64("risk_score", record.FinalRiskScore),
		zap.Strings("cues", textRisk.DetectedCues.Sorted()))

	s.saveAnalysis(ctx, report, textContentHash(text), "unknown")
	return report, nil
}

// AnalyzeAudio transcribes the audio file and runs the raw-text pipeline on
// the transcript. The transcript is returned alongside the report.
func (s *DetectionService) AnalyzeAudio(ctx context.Context, audioPath string) (string, *AnalysisReport, error) {
	if s.transcriber == nil {
		return "", nil, &TranscriptionError{Reason: "no transcriber configured"}
	}

	transcript, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", nil, err
	}

	report, err := s.AnalyzeText(ctx, transcript)
	if err != nil {
		return transcript, nil, err
	}
	return transcript, report, nil
}

// TrustSender persists a sender exception so future analyses bypass the
// pipeline for it.
func (s *DetectionService) TrustSender(ctx context.Context, sender string) error {
	if s.store == nil {
		return fmt.Errorf("no store configured")
	}
	return s.store.AddTrustedSender(ctx, sender)
}

func (s *DetectionService) isTrusted(ctx context.Context, sender string) (bool, error) {
	if s.trust != nil && s.trust.IsTrusted(sender) {
		return true, nil
	}
	if s.store != nil {
		return s.store.IsTrustedSender(ctx, sender)
	}
	return false, nil
}

// trustedSenderReport hand-builds the allow-list bypass record. It never goes
// through the decision engine, so a synthetic ALLOW is distinguishable from a
// computed one by its source.
func trustedSenderReport() *AnalysisReport {
	return &AnalysisReport{
		ID:     uuid.NewString(),
		Source: SourceTrustedSender,
		TextRisk: &TextRiskResult{
			PhishingScore: 0.0,
			DetectedCues:  NewCueSet(),
			TopIntent:     "trusted sender",
			Confidence:    ConfidenceHigh,
		},
		Behavioral: &BehavioralRiskResult{Flags: []string{}},
		Record: &DecisionRecord{
			FinalRiskScore: 0.0,
			Decision:       DecisionAllow,
			Explanation:    []string{"Sender is marked as a trusted exception."},
		},
		AnalyzedAt: time.Now().UTC(),
	}
}

func (s *DetectionService) saveAnalysis(ctx context.Context, report *AnalysisReport, hash, domain string) {
	if !s.persist || s.store == nil {
		return
	}

	rec := &StoredAnalysis{
		ID:           report.ID,
		ContentHash:  hash,
		SenderDomain: domain,
		Decision:     report.Record.Decision,
		Score:        report.Record.FinalRiskScore,
		Cues:         report.TextRisk.DetectedCues.Sorted(),
		Flags:        report.Behavioral.Flags,
		CreatedAt:    report.AnalyzedAt,
	}
	if err := s.store.SaveAnalysis(ctx, rec); err != nil {
		s.logger.Error("Failed to persist analysis", zap.Error(err), zap.String("analysis_id", report.ID))
	}
}

// BuildEmailText assembles the single text blob the scorer sees for an email,
// using a fixed template over sender, recipient, subject and body.
func BuildEmailText(email *ParsedEmail) string {
	return strings.TrimSpace(fmt.Sprintf("From: %s\nTo: %s\nSubject: %s\n\n%s",
		email.From, email.To, email.Subject, email.Body))
}

func emailContentHash(email *ParsedEmail) string {
	sum := sha256.Sum256([]byte(email.From + email.To + email.Subject + email.Body))
	return hex.EncodeToString(sum[:])
}

func textContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func senderDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain := strings.TrimSpace(strings.TrimSuffix(from[i+1:], ">"))
		if domain != "" {
			return domain
		}
	}
	return "unknown"
}
