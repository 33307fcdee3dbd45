package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type SESClient struct {
	client *ses.Client
	config *Config
	logger Logger
}

func NewSESClient(emailConfig *Config, logger Logger) (*SESClient, error) {
	if emailConfig.SESAccessKey == "" || emailConfig.SESSecretKey == "" {
		return nil, NewError("create_client", SES, ErrProviderNotConfigured)
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(emailConfig.SESRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			emailConfig.SESAccessKey,
			emailConfig.SESSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, NewError("load_config", SES, err)
	}

	return &SESClient{
		client: ses.NewFromConfig(cfg),
		config: emailConfig,
		logger: logger,
	}, nil
}

func (s *SESClient) Send(ctx context.Context, message *Message) error {
	if err := validateMessage(message); err != nil {
		return err
	}
	input := s.buildInput(message)
	return sendWithRetry(ctx, s.config, s.logger, SES, func() error {
		_, err := s.client.SendEmail(ctx, input)
		return err
	})
}

func (s *SESClient) buildInput(message *Message) *ses.SendEmailInput {
	body := &types.Body{}
	if message.Text != "" {
		body.Text = &types.Content{Data: aws.String(message.Text), Charset: aws.String("UTF-8")}
	}
	if message.HTML != "" {
		body.Html = &types.Content{Data: aws.String(message.HTML), Charset: aws.String("UTF-8")}
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(fromAddress(s.config, message.From)),
		Destination: &types.Destination{ToAddresses: message.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(message.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
	if message.ReplyTo != "" {
		input.ReplyToAddresses = []string{message.ReplyTo}
	}
	for name, value := range message.Tags {
		input.Tags = append(input.Tags, types.MessageTag{Name: aws.String(name), Value: aws.String(value)})
	}
	return input
}

func (s *SESClient) Close() error {
	return nil
}
