package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateOrderPlaced    = "order_placed"
	TemplateOrderCompleted = "order_completed"
)

var builtinTemplates = map[string]string{
	TemplateOrderPlaced: `<p>Hi {{.FreelancerName}},</p>
<p>{{.ClientName}} ordered your gig <b>{{.GigTitle}}</b> for {{printf "%.2f" .Price}}.</p>
<p>Requirements:</p>
<blockquote>{{.Requirements}}</blockquote>
<p><a href="{{.OrderURL}}">Open the order</a></p>`,

	TemplateOrderCompleted: `<p>Hi {{.FreelancerName}},</p>
<p>{{.ClientName}} confirmed delivery of <b>{{.GigTitle}}</b>.</p>
<p>{{printf "%.2f" .Price}} has been added to your wallet.</p>
<p><a href="{{.OrderURL}}">Open the order</a></p>`,
}

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
