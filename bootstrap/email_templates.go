package bootstrap

import (
	"embed"
	"fmt"
	"path"

	"campaign-platform/domain"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type defaultEmailTemplate struct {
	Code        domain.EmailCode
	Name        string
	Subject     string
	ContentFile string
}

func defaultEmailTemplates() []defaultEmailTemplate {
	return []defaultEmailTemplate{
		{
			Code:        domain.EmailCodeConfirmation,
			Name:        "Email Confirmation",
			Subject:     "Confirm your email address - {{.app_name}}",
			ContentFile: "confirmation.html",
		},
		{
			Code:        domain.EmailCodeWelcome,
			Name:        "Welcome Email",
			Subject:     "Welcome to {{.app_name}}",
			ContentFile: "welcome.html",
		},
	}
}

// EmailTemplates loads every bundled template keyed by code.
func EmailTemplates() (map[domain.EmailCode]*domain.EmailTemplate, error) {
	defaults := defaultEmailTemplates()
	out := make(map[domain.EmailCode]*domain.EmailTemplate, len(defaults))
	for _, t := range defaults {
		content, err := emailTemplates.ReadFile(path.Join("templates", "email", t.ContentFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", t.ContentFile, err)
		}
		out[t.Code] = &domain.EmailTemplate{
			Code:    t.Code,
			Name:    t.Name,
			Subject: t.Subject,
			Content: string(content),
		}
	}
	return out, nil
}
