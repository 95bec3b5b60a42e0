// Package smtpd accepts emails over SMTP, stamps them with analysis headers
// and relays them onward, in the manner of a Postfix content filter.
package smtpd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/config"
	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/mailparse"
)

const (
	sessionTimeout = 30 * time.Second
	dialTimeout    = 10 * time.Second
	// Bounds the full model chain for one message.
	analysisTimeout = 2 * time.Minute
)

type relayFunc func(sender string, recipients []string, data []byte) error

// Filter is the SMTP intake: it analyzes each incoming message and relays it
// to the configured upstream with the analysis stamped into its headers.
type Filter struct {
	service core.EmailAnalyzer
	cfg     config.SMTPConfig
	logger  *zap.Logger
	server  *smtp.Server
	relay   relayFunc
}

// NewFilter creates a new SMTP intake filter.
func NewFilter(service core.EmailAnalyzer, cfg config.SMTPConfig, logger *zap.Logger) *Filter {
	f := &Filter{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
	f.relay = f.sendUpstream
	return f
}

// Start begins accepting SMTP connections in the background.
func (f *Filter) Start() error {
	f.server = smtp.NewServer(&backend{filter: f})
	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = f.cfg.Domain
	f.server.ReadTimeout = sessionTimeout
	f.server.WriteTimeout = sessionTimeout
	f.server.MaxMessageBytes = int64(f.cfg.MaxMessageBytes)
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP intake starting",
		zap.String("address", f.cfg.ListenAddress),
		zap.String("relay", f.cfg.RelayAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop closes the SMTP listener.
func (f *Filter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// sendUpstream delivers the stamped message to the relay address.
func (f *Filter) sendUpstream(sender string, recipients []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", f.cfg.RelayAddress, dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(sessionTimeout)); err != nil {
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
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// stampHeaders prepends the analysis headers to the raw message. The original
// header block and body pass through untouched, preserving MIME structure.
func stampHeaders(result *core.ClassificationResult, raw []byte, headers config.SMTPHeaders) []byte {
	entities := result.Entities
	if entities == nil {
		entities = map[string]string{}
	}
	entitiesJSON, err := json.Marshal(entities)
	if err != nil {
		entitiesJSON = []byte("{}")
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "%s: %s\r\n", headers.Intent, result.Intent)
	fmt.Fprintf(&out, "%s: %s\r\n", headers.Urgency, result.Urgency)
	fmt.Fprintf(&out, "%s: %s\r\n", headers.Sentiment, result.Sentiment)
	fmt.Fprintf(&out, "%s: %s\r\n", headers.Entities, entitiesJSON)
	out.Write(raw)
	return out.Bytes()
}

// backend implements the go-smtp Backend interface.
type backend struct {
	filter *Filter
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// session implements the go-smtp Session interface.
type session struct {
	filter     *Filter
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message and relays it with the analysis headers stamped.
func (s *session) Data(r io.Reader) error {
	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	email, err := mailparse.ParseBytes(raw)
	if err != nil {
		s.filter.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	// Envelope addresses take precedence over header addresses.
	email.Sender = s.sender
	email.Recipient = strings.Join(s.recipients, ", ")

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	result := s.filter.service.Analyze(ctx, email)

	stamped := stampHeaders(result, raw, s.filter.cfg.Headers)
	if err := s.filter.relay(s.sender, s.recipients, stamped); err != nil {
		s.filter.logger.Error("Failed to relay email",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	s.filter.logger.Info("Relayed analyzed email",
		zap.String("sender", s.sender),
		zap.String("intent", string(result.Intent)),
		zap.String("urgency", string(result.Urgency)),
		zap.Duration("duration", time.Since(start)))

	return nil
}

func (s *session) Logout() error {
	return nil
}
