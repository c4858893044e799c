package email

import (
	"context"
	"sync"

	"gigmarket_backend/internal/logger"
)

// LogProvider пишет письма в лог вместо отправки. Используется, когда SMTP
// не настроен, и в тестах: отправленные письма доступны через Sent().
type LogProvider struct {
	renderer TemplateRenderer

	mu   sync.Mutex
	sent []Email
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.CtxInfo(ctx, "email (not sent, smtp disabled)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject, templateName string, data TemplateData) error {
	body, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: body})
}

func (p *LogProvider) Validate() error { return nil }

// Sent возвращает копию отправленных писем
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}
