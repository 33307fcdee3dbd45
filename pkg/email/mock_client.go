package email

import (
	"context"
	"sync"
	"time"
)

// MockClient records messages instead of sending them.
type MockClient struct {
	mu     sync.Mutex
	config *Config
	sent   []Message
	// FailWith, when set, is returned by every Send.
	FailWith error
}

func NewMockClient(config *Config) *MockClient {
	return &MockClient{config: config}
}

func (m *MockClient) Send(_ context.Context, message *Message) error {
	if err := validateMessage(message); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return NewError("send", Mock, m.FailWith)
	}
	msg := *message
	msg.From = fromAddress(m.config, msg.From)
	if msg.Tags == nil {
		msg.Tags = map[string]string{}
	}
	msg.Tags["sent_at"] = time.Now().UTC().Format(time.RFC3339)
	m.sent = append(m.sent, msg)
	return nil
}

func (m *MockClient) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *MockClient) Close() error {
	return nil
}
