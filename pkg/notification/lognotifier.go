package notification

import (
	"context"
	"log/slog"
)

// LogNotifier is the terminal no-op fallback: it records the email in the
// log and always reports success so a dead provider chain never strands
// the caller without any trace of the message.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Name() string {
	return "log"
}

func (n *LogNotifier) Send(ctx context.Context, email Email) error {
	slog.Info("Email logged instead of sent", "to", email.To, "subject", email.Subject)
	return nil
}
