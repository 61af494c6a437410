package email

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"
)

// Provider отправляет письма
type Provider interface {
	Send(ctx context.Context, email *Email) error
}

// ============================================================================
// gomail
// ============================================================================

type GomailProvider struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewGomailProvider(cfg SMTPConfig) *GomailProvider {
	return &GomailProvider{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.FromEmail,
		name:   cfg.FromName,
	}
}

func (p *GomailProvider) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.from, p.name)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.Body != "" {
		m.SetBody("text/plain", email.Body)
		if email.HTMLBody != "" {
			m.AddAlternative("text/html", email.HTMLBody)
		}
	} else {
		m.SetBody("text/html", email.HTMLBody)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// ============================================================================
// Noop - SMTP не настроен / тесты
// ============================================================================

type NoopProvider struct {
	mu   sync.Mutex
	sent []*Email
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(_ context.Context, email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, email)
	return nil
}

// Sent - копия отправленных писем
func (p *NoopProvider) Sent() []*Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Email(nil), p.sent...)
}
