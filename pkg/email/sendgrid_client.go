package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridClient struct {
	client *sendgrid.Client
	config *Config
	logger Logger
}

func NewSendGridClient(config *Config, logger Logger) (*SendGridClient, error) {
	if config.SendGridAPIKey == "" {
		return nil, NewError("create_client", SendGrid, ErrProviderNotConfigured)
	}
	return &SendGridClient{
		client: sendgrid.NewSendClient(config.SendGridAPIKey),
		config: config,
		logger: logger,
	}, nil
}

func (sg *SendGridClient) Send(ctx context.Context, message *Message) error {
	if err := validateMessage(message); err != nil {
		return err
	}
	sgMessage := sg.buildMessage(message)
	return sendWithRetry(ctx, sg.config, sg.logger, SendGrid, func() error {
		response, err := sg.client.SendWithContext(ctx, sgMessage)
		if err != nil {
			return err
		}
		if response.StatusCode < 200 || response.StatusCode >= 300 {
			return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
		}
		return nil
	})
}

func (sg *SendGridClient) buildMessage(message *Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(sg.config.FromName, fromAddress(sg.config, message.From)))
	m.Subject = message.Subject

	p := mail.NewPersonalization()
	for _, to := range message.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)

	if message.Text != "" {
		m.AddContent(mail.NewContent("text/plain", message.Text))
	}
	if message.HTML != "" {
		m.AddContent(mail.NewContent("text/html", message.HTML))
	}
	if message.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", message.ReplyTo))
	}
	for name, value := range message.Tags {
		m.SetCustomArg(name, value)
	}
	return m
}

func (sg *SendGridClient) Close() error {
	return nil
}
