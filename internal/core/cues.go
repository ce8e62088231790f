package core

import (
	"regexp"
	"strings"
)

// Cue rule families, compiled once. Each family contributes at most one cue
// no matter how many of its patterns match.
var (
	urgencyWords = []string{
		"urgent", "immediately", "within", "suspended",
		"locked", "expire", "final warning", "action required",
	}
	reCredentialRequest = regexp.MustCompile(`password|otp|verification code|login|credentials|pin`)
	reAuthority         = regexp.MustCompile(`admin|support|security team|bank|it desk`)
	reActionRequest     = regexp.MustCompile(`click|verify|confirm|update|reset`)
)

// ExtractCues scans text for linguistic signals of social engineering.
// Matching is case-insensitive, deterministic, and total: empty text yields
// an empty set.
func ExtractCues(text string) CueSet {
	cues := make(CueSet)
	lower := strings.ToLower(text)

	for _, word := range urgencyWords {
		if strings.Contains(lower, word) {
			cues.Add(CueUrgency)
			break
		}
	}

	if reCredentialRequest.MatchString(lower) {
		cues.Add(CueCredentialRequest)
	}
	if reAuthority.MatchString(lower) {
		cues.Add(CueAuthorityImpersonation)
	}
	if reActionRequest.MatchString(lower) {
		cues.Add(CueActionRequest)
	}

	return cues
}
