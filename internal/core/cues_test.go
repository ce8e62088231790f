package core

import (
	"reflect"
	"testing"
)

func TestExtractCuesEmptyText(t *testing.T) {
	cues := ExtractCues("")
	if cues.Len() != 0 {
		t.Fatalf("expected no cues for empty text, got %v", cues.Sorted())
	}
}

func TestExtractCuesAllFamilies(t *testing.T) {
	text := "URGENT: the Security Team needs you to click here and enter your password"
	cues := ExtractCues(text)
	want := []string{
		CueActionRequest,
		CueAuthorityImpersonation,
		CueCredentialRequest,
		CueUrgency,
	}
	if !reflect.DeepEqual(cues.Sorted(), want) {
		t.Fatalf("got %v, want %v", cues.Sorted(), want)
	}
}

func TestExtractCuesCaseInsensitive(t *testing.T) {
	lower := ExtractCues("please verify your login immediately")
	upper := ExtractCues("PLEASE VERIFY YOUR LOGIN IMMEDIATELY")
	if !reflect.DeepEqual(lower.Sorted(), upper.Sorted()) {
		t.Fatalf("case changed the cue set: %v vs %v", lower.Sorted(), upper.Sorted())
	}
}

func TestExtractCuesFamilyCollapsesDuplicates(t *testing.T) {
	cues := ExtractCues("urgent urgent act immediately, account suspended, final warning")
	if cues.Len() != 1 || !cues.Has(CueUrgency) {
		t.Fatalf("expected exactly the urgency cue, got %v", cues.Sorted())
	}
}

func TestExtractCuesBenignText(t *testing.T) {
	cues := ExtractCues("lunch is at noon, see you there")
	if cues.Len() != 0 {
		t.Fatalf("expected no cues, got %v", cues.Sorted())
	}
}

func TestExtractCuesDeterministic(t *testing.T) {
	text := "verify your password immediately"
	first := ExtractCues(text).Sorted()
	for i := 0; i < 10; i++ {
		if got := ExtractCues(text).Sorted(); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not deterministic: %v vs %v", got, first)
		}
	}
}
