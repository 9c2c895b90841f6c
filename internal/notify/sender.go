package notify

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/lmdrew96/ChickenScratch-sub001/internal/config"

	mail "github.com/go-mail/mail/v2"
)

// Sender delivers one email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// SMTPSender sends via an SMTP relay with mandatory STARTTLS.
type SMTPSender struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify, // local relay testing only
	}
	return &SMTPSender{dialer: d, from: cfg.From}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	// mail/v2 has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}

// DropSender discards all mail; used when SMTP is not configured.
type DropSender struct{}

func (DropSender) Send(ctx context.Context, to []string, subject, html string) error { return nil }

// MemorySender captures sent mail for tests.
type MemorySender struct {
	mu      sync.Mutex
	sent    []SentMail
	failErr error
}

type SentMail struct {
	To      []string
	Subject string
	HTML    string
}

func NewMemorySender() *MemorySender { return &MemorySender{} }

func (s *MemorySender) Send(ctx context.Context, to []string, subject, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.sent = append(s.sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (s *MemorySender) Sent() []SentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMail, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *MemorySender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
