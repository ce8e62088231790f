package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/eml"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// SMTPFilter implements a Postfix after-queue content filter: it receives
// each message over SMTP, analyzes it, stamps the verdict into headers and
// re-injects the message into Postfix.
type SMTPFilter struct {
	service        *core.DetectionService
	decoder        *eml.Decoder
	logger         *zap.Logger
	listenAddr     string
	server         *smtp.Server
	blockHighRisk  bool
	decisionHeader string
	scoreHeader    string
	reasonHeader   string
	postfixAddr    string
	postfixPort    int
	postfixEnabled bool
	subjectPrefix  string
	modifySubject  bool
}

// NewSMTPFilter creates a new SMTP content filter.
func NewSMTPFilter(
	service *core.DetectionService,
	decoder *eml.Decoder,
	logger *zap.Logger,
	listenAddr string,
	blockHighRisk bool,
	decisionHeader string,
	scoreHeader string,
	reasonHeader string,
	postfixAddr string,
	postfixPort int,
	postfixEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPFilter {
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**SUSPICIOUS**] "
	}

	return &SMTPFilter{
		service:        service,
		decoder:        decoder,
		logger:         logger,
		listenAddr:     listenAddr,
		blockHighRisk:  blockHighRisk,
		decisionHeader: decisionHeader,
		scoreHeader:    scoreHeader,
		reasonHeader:   reasonHeader,
		postfixAddr:    postfixAddr,
		postfixPort:    postfixPort,
		postfixEnabled: postfixEnabled,
		subjectPrefix:  subjectPrefix,
		modifySubject:  modifySubject,
	}
}

// Start starts the SMTP server.
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server.
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail analyzes one decoded message. Used for direct calls and tests.
func (f *SMTPFilter) ProcessEmail(ctx context.Context, email *core.ParsedEmail) (*core.AnalysisReport, error) {
	return f.service.AnalyzeEmail(ctx, email)
}

// sendToPostfix re-injects the processed message into Postfix.
func (f *SMTPFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := fmt.Sprintf("%s:%d", f.postfixAddr, f.postfixPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt, nil); err != nil {
			f.logger.Warn("RCPT TO failed", zap.Error(err), zap.String("recipient", rcpt))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("no recipient accepted")
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(emailData); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message data: %w", err)
	}

	return c.Quit()
}

type smtpBackend struct {
	filter *SMTPFilter
}

func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

func (s *smtpSession) Mail(from string, opts *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, opts *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Logout() error {
	return nil
}

// Data receives the message payload, analyzes it and forwards or rejects it.
// An analysis failure must never pass mail through as clean, so it tempfails
// and Postfix retries.
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		s.filter.logger.Error("Failed to parse message", zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "malformed message",
		}
	}

	email, err := s.filter.decoder.Decode(bytes.NewReader(raw))
	if err != nil {
		s.filter.logger.Error("Failed to decode message", zap.Error(err), zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "undecodable message",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := s.filter.service.AnalyzeEmail(ctx, email)
	if err != nil {
		s.filter.logger.Error("Failed to analyze message",
			zap.Error(err),
			zap.String("sender", email.From))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 7, 1},
			Message:      "analysis unavailable, try again later",
		}
	}

	record := report.Record
	if record.Decision == core.DecisionBlock && s.filter.blockHighRisk {
		s.filter.logger.Info("Rejecting high-risk message",
			zap.String("from", email.From),
			zap.Float64("score", record.FinalRiskScore))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("rejected as phishing (score: %.2f)", record.FinalRiskScore),
		}
	}

	modified := s.buildModifiedEmail(raw, msg, report)
	if s.filter.postfixEnabled {
		if err := s.filter.sendToPostfix(s.sender, s.recipients, modified); err != nil {
			s.filter.logger.Error("Failed to re-inject message into Postfix",
				zap.Error(err),
				zap.String("sender", email.From))
			return err
		}
	} else {
		s.filter.logger.Warn("Postfix forwarding disabled, message not re-injected")
	}

	s.filter.logger.Info("Processed message",
		zap.String("from", email.From),
		zap.String("decision", string(record.Decision)),
		zap.Float64("score", record.FinalRiskScore),
		zap.String("source", report.Source))

	return nil
}

// buildModifiedEmail stamps the verdict headers onto the original message,
// preserving the raw body (MIME parts and attachments included).
func (s *smtpSession) buildModifiedEmail(raw []byte, msg *mail.Message, report *core.AnalysisReport) []byte {
	record := report.Record

	var out bytes.Buffer
	fmt.Fprintf(&out, "%s: %s\r\n", s.filter.decisionHeader, record.Decision)
	fmt.Fprintf(&out, "%s: %.2f\r\n", s.filter.scoreHeader, record.FinalRiskScore)
	fmt.Fprintf(&out, "%s: %s\r\n", s.filter.reasonHeader, strings.Join(record.Explanation, " "))

	prefixSubject := s.filter.modifySubject && record.Decision != core.DecisionAllow
	for key, values := range msg.Header {
		if prefixSubject && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&out, "%s: %s\r\n", key, value)
		}
	}
	if prefixSubject {
		subject := msg.Header.Get("Subject")
		if !strings.HasPrefix(subject, s.filter.subjectPrefix) {
			subject = s.filter.subjectPrefix + subject
		}
		fmt.Fprintf(&out, "Subject: %s\r\n", subject)
	}
	fmt.Fprintf(&out, "\r\n")

	bodyStart := bytes.Index(raw, []byte("\r\n\r\n"))
	if bodyStart >= 0 {
		out.Write(raw[bodyStart+4:])
		return out.Bytes()
	}
	if bodyStart = bytes.Index(raw, []byte("\n\n")); bodyStart >= 0 {
		out.Write(raw[bodyStart+2:])
	}
	return out.Bytes()
}
