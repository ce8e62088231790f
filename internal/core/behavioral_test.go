package core

import (
	"reflect"
	"testing"
)

func TestAnalyzeNilMetadata(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(nil)
	if res.Score != 0.0 {
		t.Fatalf("score = %v, want 0 for missing metadata", res.Score)
	}
	if len(res.Flags) != 0 {
		t.Fatalf("flags = %v, want none for missing metadata", res.Flags)
	}
}

func TestAnalyzeMismatchAndIPLink(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{
		FromAddress:    "alice@example.com",
		ReplyToAddress: "bob@evil.net",
		URLs:           []string{"http://203.0.113.5/login"},
	})
	want := []string{FlagFromReplyToMismatch, FlagIPBasedLink}
	if !reflect.DeepEqual(res.Flags, want) {
		t.Fatalf("flags = %v, want %v", res.Flags, want)
	}
	if res.Score != 0.4 {
		t.Fatalf("score = %v, want 0.4", res.Score)
	}
}

func TestAnalyzeEmptyReplyToIsNotMismatch(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{
		FromAddress: "alice@example.com",
	})
	if res.HasFlag(FlagFromReplyToMismatch) {
		t.Fatalf("mismatch flagged with no reply-to: %v", res.Flags)
	}
}

func TestAnalyzeShortenedURL(t *testing.T) {
	for _, raw := range []string{
		"https://bit.ly/3xYz",
		"https://tinyurl.com/abc",
		"https://t.co/xyz",
	} {
		res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{URLs: []string{raw}})
		if !res.HasFlag(FlagShortenedURL) {
			t.Fatalf("%q not flagged as shortened: %v", raw, res.Flags)
		}
		if res.Score != 0.2 {
			t.Fatalf("%q score = %v, want 0.2", raw, res.Score)
		}
	}
}

func TestAnalyzeFlagsKeepSetSemanticsScoreAccumulates(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{
		URLs: []string{
			"http://198.51.100.1/a",
			"http://198.51.100.2/b",
			"https://bit.ly/c",
		},
	})
	want := []string{FlagIPBasedLink, FlagShortenedURL}
	if !reflect.DeepEqual(res.Flags, want) {
		t.Fatalf("flags = %v, want %v", res.Flags, want)
	}
	// Two IP links plus one shortener each add 0.2.
	if res.Score != 0.6 {
		t.Fatalf("score = %v, want 0.6", res.Score)
	}
}

func TestAnalyzeScoreCappedAtOne(t *testing.T) {
	urls := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		urls = append(urls, "http://203.0.113.7/p")
	}
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{URLs: urls})
	if res.Score != 1.0 {
		t.Fatalf("score = %v, want cap at 1.0", res.Score)
	}
	if len(res.Flags) != 1 {
		t.Fatalf("flags = %v, want single ip_based_link flag", res.Flags)
	}
}

func TestAnalyzeMalformedURLTolerated(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{
		URLs: []string{"http://%zz/bad", "not a url at all"},
	})
	if len(res.Flags) != 0 || res.Score != 0.0 {
		t.Fatalf("malformed URLs raised signals: flags=%v score=%v", res.Flags, res.Score)
	}
}

func TestAnalyzeDomainHostNotIPFlagged(t *testing.T) {
	res := NewBehavioralAnalyzer().Analyze(&StructuralMetadata{
		URLs: []string{"https://example.com/reset"},
	})
	if res.HasFlag(FlagIPBasedLink) || res.HasFlag(FlagShortenedURL) {
		t.Fatalf("plain domain URL flagged: %v", res.Flags)
	}
}
