package notification

import "context"

// Email is the message handed to each notifier in the chain.
type Email struct {
	To      string // Recipient address
	Subject string
	Html    string // HTML body
	Text    string // Optional plain-text alternative
}

// Notifier is an email-sending provider in the fallback chain.
type Notifier interface {
	// Name identifies the provider in logs
	Name() string

	// Send delivers the email or returns an error. Errors never propagate
	// past the dispatcher; they mean "try the next provider".
	Send(ctx context.Context, email Email) error
}
