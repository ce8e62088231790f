// Package eml decodes RFC 5322 messages (.eml files, SMTP payloads) into the
// normalized evidence the detection pipeline consumes.
package eml

import (
	"bufio"
	"io"
	"net/mail"
	"os"
	"regexp"
	"strings"

	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

var reAbsoluteURL = regexp.MustCompile(`https?://\S+`)

// Decoder parses raw messages into core.ParsedEmail.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder creates a new message decoder.
func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// DecodeFile decodes the .eml file at path.
func (d *Decoder) DecodeFile(path string) (*core.ParsedEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.DecodeError{Reason: "cannot open message file", Err: err}
	}
	defer f.Close()
	return d.Decode(f)
}

// Decode parses a raw message. A message whose headers and body carry no
// analyzable text at all is a decode failure, not a zero-risk message.
func (d *Decoder) Decode(r io.Reader) (*core.ParsedEmail, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return nil, &core.DecodeError{Reason: "malformed message", Err: err}
	}

	body, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, &core.DecodeError{Reason: "cannot extract body text", Err: err}
	}

	email := &core.ParsedEmail{
		From:        decodeHeaderValue(msg.Header.Get("From")),
		To:          decodeHeaderValue(msg.Header.Get("To")),
		Subject:     decodeHeaderValue(msg.Header.Get("Subject")),
		ReplyTo:     decodeHeaderValue(msg.Header.Get("Reply-To")),
		AuthResults: msg.Header.Get("Authentication-Results"),
		Body:        body,
		Headers:     map[string][]string(msg.Header),
		URLs:        reAbsoluteURL.FindAllString(body, -1),
	}

	if strings.TrimSpace(email.From+email.To+email.Subject+email.Body) == "" {
		return nil, &core.DecodeError{Reason: "message contains no analyzable text"}
	}

	d.logger.Debug("Decoded message",
		zap.String("from", email.From),
		zap.String("subject", email.Subject),
		zap.Int("body_bytes", len(email.Body)),
		zap.Int("urls", len(email.URLs)))

	return email, nil
}
