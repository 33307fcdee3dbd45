package usecase

import (
	"bytes"
	"fmt"
	htmlTemplate "html/template"
	"strings"
	textTemplate "text/template"
	"time"

	"campaign-platform/domain"
	"campaign-platform/pkg/log"
)

type htmlTemplateRenderer struct {
	logger log.Logger
	now    func() time.Time
}

func NewTemplateRenderer(logger log.Logger) TemplateRenderer {
	return &htmlTemplateRenderer{logger: logger, now: time.Now}
}

func (r *htmlTemplateRenderer) funcMap() map[string]any {
	return map[string]any{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"now":   func() string { return r.now().Format("2006-01-02 15:04:05") },
	}
}

// RenderTemplate renders the subject as text and the body as HTML, so values
// interpolated into the body are escaped.
func (r *htmlTemplateRenderer) RenderTemplate(tmpl *domain.EmailTemplate, data map[string]interface{}) (subject, content string, err error) {
	values := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		values[k] = v
	}
	if _, exists := values["current_time"]; !exists {
		values["current_time"] = r.now().Format("2006-01-02 15:04:05")
	}

	subjectTmpl, err := textTemplate.New("subject").Funcs(r.funcMap()).Option("missingkey=error").Parse(tmpl.Subject)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var subjectBuf bytes.Buffer
	if err := subjectTmpl.Execute(&subjectBuf, values); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}

	contentTmpl, err := htmlTemplate.New("content").Funcs(r.funcMap()).Option("missingkey=error").Parse(tmpl.Content)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse content template: %w", err)
	}
	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, values); err != nil {
		return "", "", fmt.Errorf("failed to render content: %w", err)
	}

	r.logger.Debug("Template rendered",
		log.String("template", string(tmpl.Code)),
		log.Int("content_length", contentBuf.Len()),
	)
	return subjectBuf.String(), contentBuf.String(), nil
}
