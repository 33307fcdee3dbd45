package usecase

import (
	"context"

	"campaign-platform/domain"
	"campaign-platform/pkg/email"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"
)

type EmailLogRepository interface {
	Create(ctx context.Context, emailLog *domain.EmailLog) error
	Update(ctx context.Context, emailLog *domain.EmailLog) error
}

type TemplateRenderer interface {
	RenderTemplate(template *domain.EmailTemplate, data map[string]interface{}) (subject, content string, err error)
}

type emailUsecase struct {
	emailLogRepo     EmailLogRepository
	templates        map[domain.EmailCode]*domain.EmailTemplate
	emailClient      email.Client
	provider         string
	templateRenderer TemplateRenderer
	logger           log.Logger
}

func NewEmailUsecase(
	emailLogRepo EmailLogRepository,
	templates map[domain.EmailCode]*domain.EmailTemplate,
	emailClient email.Client,
	provider string,
	templateRenderer TemplateRenderer,
	logger log.Logger,
) domain.EmailUsecase {
	return &emailUsecase{
		emailLogRepo:     emailLogRepo,
		templates:        templates,
		emailClient:      emailClient,
		provider:         provider,
		templateRenderer: templateRenderer,
		logger:           logger,
	}
}

// SendTemplate renders the template, sends it and records the attempt. A
// failed send still leaves a failed EmailLog row behind.
func (u *emailUsecase) SendTemplate(ctx context.Context, req *domain.SendTemplateEmailRequest) (*domain.EmailLog, error) {
	tmpl, ok := u.templates[req.Code]
	if !ok {
		return nil, domain.ErrEmailTemplateNotFound.WithDetail("code", req.Code)
	}

	subject, content, err := u.templateRenderer.RenderTemplate(tmpl, req.Data)
	if err != nil {
		return nil, domain.ErrEmailSendFailed.WithReason("failed to render template").WithWrap(err)
	}

	emailLog := &domain.EmailLog{
		Recipient: req.To,
		Subject:   subject,
		Template:  req.Code,
		Provider:  u.provider,
		Status:    domain.EmailStatusPending,
		RequestID: log.ValueFrom(ctx, log.CtxKeyRequestID),
	}
	if err := u.emailLogRepo.Create(ctx, emailLog); err != nil {
		return nil, domain.ErrEmailSendFailed.WithWrap(err)
	}

	sendErr := u.emailClient.Send(ctx, &email.Message{
		To:      []string{req.To},
		Subject: subject,
		HTML:    content,
		Tags:    map[string]string{"template": string(req.Code)},
	})
	if sendErr != nil {
		emailLog.Status = domain.EmailStatusFailed
		emailLog.ErrorMsg = sendErr.Error()
	} else {
		emailLog.Status = domain.EmailStatusSuccess
		emailLog.SentAt = utils.NowUnixMillis()
	}
	if err := u.emailLogRepo.Update(ctx, emailLog); err != nil {
		u.logger.ErrorContext(ctx, "Failed to update email log", log.String("email_log_id", emailLog.ID), log.Error(err))
	}

	if sendErr != nil {
		u.logger.ErrorContext(ctx, "Failed to send email",
			log.String("email_log_id", emailLog.ID),
			log.String("template", string(req.Code)),
			log.Error(sendErr),
		)
		return emailLog, domain.ErrEmailSendFailed.WithWrap(sendErr)
	}

	u.logger.InfoContext(ctx, "Email sent",
		log.String("email_log_id", emailLog.ID),
		log.String("template", string(req.Code)),
	)
	return emailLog, nil
}

