package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Provider string

const (
	SES      Provider = "ses"
	SendGrid Provider = "sendgrid"
	Mock     Provider = "mock"
)

var (
	ErrInvalidProvider       = errors.New("invalid email provider")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrMissingRecipients     = errors.New("no recipients specified")
	ErrMissingSubject        = errors.New("subject is required")
	ErrMissingContent        = errors.New("email content is required")
	ErrProviderNotConfigured = errors.New("email provider not properly configured")
)

type Error struct {
	Operation string
	Provider  Provider
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("email %s operation failed for provider '%s': %v", e.Operation, e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(operation string, provider Provider, err error) *Error {
	return &Error{Operation: operation, Provider: provider, Err: err}
}

type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
}

type Client interface {
	Send(ctx context.Context, message *Message) error
	Close() error
}

type Message struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	ReplyTo string            `json:"reply_to,omitempty"`
	Subject string            `json:"subject"`
	Text    string            `json:"text,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
}

type Config struct {
	DefaultFrom string
	FromName    string

	SESRegion    string
	SESAccessKey string
	SESSecretKey string

	SendGridAPIKey string

	MaxRetries int
	RetryDelay time.Duration
}

type Factory struct {
	logger Logger
}

func NewEmailFactory(logger Logger) *Factory {
	return &Factory{logger: logger}
}

func (f *Factory) CreateClient(provider Provider, config *Config) (Client, error) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}

	var (
		client Client
		err    error
	)
	switch provider {
	case SES:
		if config.SESRegion == "" {
			config.SESRegion = "us-east-1"
		}
		client, err = NewSESClient(config, f.logger)
	case SendGrid:
		client, err = NewSendGridClient(config, f.logger)
	case Mock:
		client = NewMockClient(config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvider, provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
	}

	f.logger.Info("Email client created", "provider", string(provider), "default_from", config.DefaultFrom)
	return client, nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(address string) error {
	if !emailPattern.MatchString(address) {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, address)
	}
	return nil
}

func validateMessage(message *Message) error {
	if len(message.To) == 0 {
		return ErrMissingRecipients
	}
	for _, to := range message.To {
		if err := ValidateEmail(to); err != nil {
			return err
		}
	}
	if message.Subject == "" {
		return ErrMissingSubject
	}
	if message.Text == "" && message.HTML == "" {
		return ErrMissingContent
	}
	return nil
}

func fromAddress(config *Config, from string) string {
	if from == "" {
		return config.DefaultFrom
	}
	return from
}

// sendWithRetry calls send up to MaxRetries+1 times with linear backoff.
func sendWithRetry(ctx context.Context, config *Config, logger Logger, provider Provider, send func() error) error {
	var lastErr error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.RetryDelay * time.Duration(attempt)):
			}
		}
		if lastErr = send(); lastErr == nil {
			return nil
		}
		logger.Debug("Email send attempt failed",
			"provider", string(provider),
			"attempt", attempt+1,
			"error", lastErr.Error(),
		)
	}
	return NewError("send", provider, lastErr)
}
