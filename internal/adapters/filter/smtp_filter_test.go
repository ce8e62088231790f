package filter

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

func testFilter(modifySubject bool) *SMTPFilter {
	return NewSMTPFilter(nil, nil, zap.NewNop(),
		"127.0.0.1:10025", false,
		"X-Phishing-Decision", "X-Phishing-Score", "X-Phishing-Reason",
		"127.0.0.1", 10026, false, "", modifySubject)
}

func warnReport() *core.AnalysisReport {
	return &core.AnalysisReport{
		Source: core.SourceEngine,
		Record: &core.DecisionRecord{
			FinalRiskScore: 0.62,
			Decision:       core.DecisionWarn,
			Explanation: []string{
				"This content shows signs of social engineering. Verify the source before taking any action.",
			},
		},
	}
}

func rebuild(t *testing.T, f *SMTPFilter, raw string, report *core.AnalysisReport) *mail.Message {
	t.Helper()
	sess := &smtpSession{filter: f}
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("test message invalid: %v", err)
	}
	out := sess.buildModifiedEmail([]byte(raw), msg, report)
	rebuilt, err := mail.ReadMessage(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("modified message unparseable: %v\n%s", err, out)
	}
	return rebuilt
}

func TestBuildModifiedEmailStampsVerdictHeaders(t *testing.T) {
	raw := "From: a@x.com\r\nTo: b@y.com\r\nSubject: hello\r\n\r\nbody line\r\n"
	msg := rebuild(t, testFilter(false), raw, warnReport())

	if got := msg.Header.Get("X-Phishing-Decision"); got != "WARN" {
		t.Fatalf("decision header = %q", got)
	}
	if got := msg.Header.Get("X-Phishing-Score"); got != "0.62" {
		t.Fatalf("score header = %q", got)
	}
	if got := msg.Header.Get("X-Phishing-Reason"); !strings.Contains(got, "signs of social engineering") {
		t.Fatalf("reason header = %q", got)
	}
	if got := msg.Header.Get("Subject"); got != "hello" {
		t.Fatalf("subject changed without modify_subject: %q", got)
	}
}

func TestBuildModifiedEmailPreservesBody(t *testing.T) {
	raw := "From: a@x.com\r\nTo: b@y.com\r\nSubject: s\r\n\r\nline one\r\nline two\r\n"
	msg := rebuild(t, testFilter(false), raw, warnReport())

	var body bytes.Buffer
	if _, err := body.ReadFrom(msg.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if body.String() != "line one\r\nline two\r\n" {
		t.Fatalf("body altered: %q", body.String())
	}
}

func TestBuildModifiedEmailPrefixesSubjectOnWarn(t *testing.T) {
	raw := "From: a@x.com\r\nTo: b@y.com\r\nSubject: invoice\r\n\r\nbody\r\n"
	msg := rebuild(t, testFilter(true), raw, warnReport())

	if got := msg.Header.Get("Subject"); got != "[**SUSPICIOUS**] invoice" {
		t.Fatalf("subject = %q", got)
	}
}

func TestBuildModifiedEmailNoPrefixOnAllow(t *testing.T) {
	raw := "From: a@x.com\r\nTo: b@y.com\r\nSubject: invoice\r\n\r\nbody\r\n"
	report := warnReport()
	report.Record.Decision = core.DecisionAllow
	msg := rebuild(t, testFilter(true), raw, report)

	if got := msg.Header.Get("Subject"); got != "invoice" {
		t.Fatalf("allow verdict changed the subject: %q", got)
	}
}

func TestBuildModifiedEmailSubjectPrefixIdempotent(t *testing.T) {
	raw := "From: a@x.com\r\nTo: b@y.com\r\nSubject: [**SUSPICIOUS**] invoice\r\n\r\nbody\r\n"
	msg := rebuild(t, testFilter(true), raw, warnReport())

	if got := msg.Header.Get("Subject"); got != "[**SUSPICIOUS**] invoice" {
		t.Fatalf("prefix stacked: %q", got)
	}
}
