package email

import "context"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет сообщение
	Send(ctx context.Context, email *Email) error

	// SendTemplate рендерит шаблон и отправляет письмо
	SendTemplate(ctx context.Context, to []string, subject, templateName string, data TemplateData) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}

// NewProvider выбирает SMTP провайдер или, если SMTP host пустой, LogProvider
func NewProvider(cfg SMTPConfig) Provider {
	renderer := NewTemplateManager()
	if cfg.Host == "" {
		return NewLogProvider(renderer)
	}
	return NewSMTPProvider(cfg, renderer)
}
