package notification

import "context"

// MockNotifier records sends for tests and can be forced to fail.
type MockNotifier struct {
	NotifierName string
	Err          error
	SentEmails   []Email
}

func (m *MockNotifier) Name() string {
	if m.NotifierName != "" {
		return m.NotifierName
	}
	return "mock"
}

func (m *MockNotifier) Send(ctx context.Context, email Email) error {
	if m.Err != nil {
		return m.Err
	}
	m.SentEmails = append(m.SentEmails, email)
	return nil
}
