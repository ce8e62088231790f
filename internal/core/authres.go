package core

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var reAuthVerdict = map[string]*regexp.Regexp{}

func init() {
	for _, mechanism := range []string{"spf", "dkim", "dmarc"} {
		reAuthVerdict[mechanism] = regexp.MustCompile(fmt.Sprintf(`%s=(pass|fail|none)`, mechanism))
	}
}

// AuthResultsAnalyzer extracts SPF/DKIM/DMARC verdicts from the
// Authentication-Results header. Its output is advisory and not part of the
// decision fusion.
type AuthResultsAnalyzer struct{}

// NewAuthResultsAnalyzer creates a new authentication-results analyzer.
func NewAuthResultsAnalyzer() *AuthResultsAnalyzer {
	return &AuthResultsAnalyzer{}
}

// Analyze parses the raw Authentication-Results header value. Mechanisms that
// do not appear report "unknown".
func (a *AuthResultsAnalyzer) Analyze(headerValue string) *AuthResult {
	lower := strings.ToLower(headerValue)

	result := &AuthResult{
		SPF:   authVerdict(lower, "spf"),
		DKIM:  authVerdict(lower, "dkim"),
		DMARC: authVerdict(lower, "dmarc"),
		Flags: []string{},
	}

	score := 0.0
	if result.SPF == "fail" {
		result.Flags = append(result.Flags, "spf_fail")
		score += 0.2
	}
	if result.DKIM == "fail" {
		result.Flags = append(result.Flags, "dkim_fail")
		score += 0.2
	}
	if result.DMARC == "fail" {
		result.Flags = append(result.Flags, "dmarc_fail")
		score += 0.3
	}
	result.Score = math.Min(score, 1.0)

	return result
}

func authVerdict(text, mechanism string) string {
	m := reAuthVerdict[mechanism].FindStringSubmatch(text)
	if m == nil {
		return "unknown"
	}
	return m[1]
}
