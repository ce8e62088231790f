package core

import (
	"math"
	"net/url"
	"regexp"
)

const urlFlagWeight = 0.2

var (
	reDottedQuad = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

	// Known URL-shortener hosts.
	shortenerHosts = map[string]struct{}{
		"bit.ly":      {},
		"tinyurl.com": {},
		"t.co":        {},
	}
)

// BehavioralAnalyzer inspects channel-specific structural signals, independent
// of language content. It is stateless and deterministic.
type BehavioralAnalyzer struct{}

// NewBehavioralAnalyzer creates a new behavioral analyzer.
func NewBehavioralAnalyzer() *BehavioralAnalyzer {
	return &BehavioralAnalyzer{}
}

// Analyze evaluates structural metadata. A nil argument means the channel has
// no structural evidence (voice, chat) and yields the zero-evidence result;
// behavioral risk is channel-gated, never guessed from raw text.
//
// Flags keep set semantics, but every qualifying URL occurrence still adds to
// the score; the score is hard-capped at 1.0. Malformed URLs are tolerated as
// non-IP, non-shortened.
func (a *BehavioralAnalyzer) Analyze(meta *StructuralMetadata) *BehavioralRiskResult {
	result := &BehavioralRiskResult{Flags: []string{}}
	if meta == nil {
		return result
	}

	score := 0.0

	if meta.ReplyToAddress != "" && meta.ReplyToAddress != meta.FromAddress {
		result.addFlag(FlagFromReplyToMismatch)
		score += urlFlagWeight
	}

	for _, raw := range meta.URLs {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := parsed.Hostname()

		if reDottedQuad.MatchString(host) {
			result.addFlag(FlagIPBasedLink)
			score += urlFlagWeight
		}
		if _, ok := shortenerHosts[host]; ok {
			result.addFlag(FlagShortenedURL)
			score += urlFlagWeight
		}
	}

	result.Score = Round2(math.Min(score, 1.0))
	return result
}

// addFlag appends the flag unless it was already raised, preserving
// first-detection order.
func (r *BehavioralRiskResult) addFlag(flag string) {
	if !r.HasFlag(flag) {
		r.Flags = append(r.Flags, flag)
	}
}
