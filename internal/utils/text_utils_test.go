package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateTextUnderLimit(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	if got := tp.TruncateText("short", 100); got != "short" {
		t.Fatalf("got %q, want unchanged text", got)
	}
}

func TestTruncateTextDisabled(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	long := strings.Repeat("a", 100)
	if got := tp.TruncateText(long, 0); got != long {
		t.Fatalf("maxSize 0 truncated the text")
	}
}

func TestTruncateTextAppendsMarker(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	got := tp.TruncateText(strings.Repeat("a", 50), 10)
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Content truncated") {
		t.Fatalf("truncation marker missing: %q", got)
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	// Cut in the middle of a multi-byte rune.
	got := tp.TruncateText("aé", 2)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestSanitizeUTF8DropsInvalidBytes(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	got := tp.SanitizeUTF8("ok\xffstill ok")
	if !utf8.ValidString(got) {
		t.Fatalf("result still invalid: %q", got)
	}
	if got != "okstill ok" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeUTF8KeepsValidText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	in := "déjà vu"
	if got := tp.SanitizeUTF8(in); got != in {
		t.Fatalf("valid text was altered: %q", got)
	}
}
