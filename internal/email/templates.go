package email

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const TemplateAlertCreated = "alert_created"

// TemplateManager рендерит встроенные шаблоны писем
type TemplateManager struct {
	templates *template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &TemplateManager{templates: tpl}, nil
}

func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	var buf strings.Builder
	if err := tm.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
