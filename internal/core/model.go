package core

import (
	"sort"
	"time"
)

// Decision is the final verdict for an analyzed message.
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionWarn  Decision = "WARN"
	DecisionBlock Decision = "BLOCK"
)

// Confidence is the qualitative band derived from the phishing score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Linguistic cue vocabulary.
const (
	CueUrgency                = "urgency"
	CueCredentialRequest      = "credential_request"
	CueAuthorityImpersonation = "authority_impersonation"
	CueActionRequest          = "action_request"
)

// Behavioral flag vocabulary.
const (
	FlagFromReplyToMismatch = "from_reply_to_mismatch"
	FlagIPBasedLink         = "ip_based_link"
	FlagShortenedURL        = "shortened_url"
)

// Zero-shot classification labels. ClassificationLabels fixes the canonical
// order used for prompting and for deterministic tie-breaking.
const (
	LabelPhishingAttempt        = "phishing attempt"
	LabelCredentialHarvesting   = "credential harvesting"
	LabelUrgentRequest          = "urgent request"
	LabelAuthorityImpersonation = "authority impersonation"
	LabelLegitimateEmail        = "legitimate email"
)

var ClassificationLabels = []string{
	LabelPhishingAttempt,
	LabelCredentialHarvesting,
	LabelUrgentRequest,
	LabelAuthorityImpersonation,
	LabelLegitimateEmail,
}

// CueSet is a set of detected linguistic cues. Duplicates collapse; ordering
// of membership is irrelevant and only fixed when rendered via Sorted.
type CueSet map[string]struct{}

func NewCueSet(cues ...string) CueSet {
	s := make(CueSet, len(cues))
	for _, c := range cues {
		s[c] = struct{}{}
	}
	return s
}

func (s CueSet) Add(cue string) {
	s[cue] = struct{}{}
}

func (s CueSet) Has(cue string) bool {
	_, ok := s[cue]
	return ok
}

func (s CueSet) Len() int {
	return len(s)
}

// Sorted returns the cues in lexicographic order.
func (s CueSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// StructuralMetadata carries the header-like evidence of structured channels.
// It is derived once at decode time and never mutated afterwards.
type StructuralMetadata struct {
	FromAddress    string
	ReplyToAddress string
	// URLs holds every absolute URL found in the body, in document order,
	// duplicates preserved.
	URLs []string
}

// Message is the channel-agnostic evidence unit fed to the pipelines. Text is
// never empty for a successfully decoded input; Structural is nil for
// channels without header-like metadata (voice, chat).
type Message struct {
	Text       string
	Structural *StructuralMetadata
}

// ParsedEmail is the output of the structured-message decoder.
type ParsedEmail struct {
	From        string
	To          string
	Subject     string
	ReplyTo     string
	AuthResults string
	Body        string
	Headers     map[string][]string
	URLs        []string
}

// Structural derives the immutable structural evidence of the email.
func (e *ParsedEmail) Structural() *StructuralMetadata {
	urls := make([]string, len(e.URLs))
	copy(urls, e.URLs)
	return &StructuralMetadata{
		FromAddress:    e.From,
		ReplyToAddress: e.ReplyTo,
		URLs:           urls,
	}
}

// TextRiskResult is the normalized language-risk verdict for one text unit.
type TextRiskResult struct {
	PhishingScore float64
	DetectedCues  CueSet
	TopIntent     string
	Confidence    Confidence
}

// BehavioralRiskResult is the structural-risk verdict. Flags preserve
// first-detection order with set semantics; the score accumulates per
// qualifying occurrence and is clamped to [0,1].
type BehavioralRiskResult struct {
	Flags []string
	Score float64
}

// HasFlag reports whether the given behavioral flag was raised.
func (r *BehavioralRiskResult) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AuthResult is the advisory SPF/DKIM/DMARC verdict extracted from the
// Authentication-Results header. It is reported, not fused into the decision.
type AuthResult struct {
	SPF   string
	DKIM  string
	DMARC string
	Flags []string
	Score float64
}

// DecisionRecord is the final fused verdict. It is constructed exactly once
// per analysis by the decision engine and is immutable afterwards.
type DecisionRecord struct {
	FinalRiskScore float64
	Decision       Decision
	// Explanation lists rationale sentences in fixed order: cues first,
	// then behavior, then the verdict summary.
	Explanation []string
}

// Report sources.
const (
	SourceEngine        = "engine"
	SourceTrustedSender = "trusted_sender"
)

// AnalysisReport bundles everything one analysis invocation produced.
type AnalysisReport struct {
	ID         string
	Source     string
	TextRisk   *TextRiskResult
	Behavioral *BehavioralRiskResult
	Auth       *AuthResult
	Record     *DecisionRecord
	AnalyzedAt time.Time
}

// Bypassed reports whether the record was hand-built by the allow-list
// short-circuit rather than computed by the decision engine.
func (r *AnalysisReport) Bypassed() bool {
	return r.Source == SourceTrustedSender
}

// StoredAnalysis is the persistence projection of a finished analysis,
// keyed by a content-derived hash so repeated submissions deduplicate.
type StoredAnalysis struct {
	ID           string
	ContentHash  string
	SenderDomain string
	Decision     Decision
	Score        float64
	Cues         []string
	Flags        []string
	CreatedAt    time.Time
}
