package notification

import (
	"context"
	"log/slog"
)

// Dispatcher attempts delivery through an ordered provider chain. Each
// provider failure is logged and treated as "try the next provider".
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher creates a dispatcher over the given chain, tried in order.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// Dispatch sends the email through the chain and reports whether any
// provider succeeded. It never returns an error: notification delivery is
// best-effort and must not affect the provisioning outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, email Email) bool {
	for _, notifier := range d.notifiers {
		if err := notifier.Send(ctx, email); err != nil {
			slog.Warn("Notifier failed, trying next",
				"notifier", notifier.Name(), "to", email.To, "err", err)
			continue
		}
		slog.Info("Email sent", "notifier", notifier.Name(), "to", email.To)
		return true
	}
	slog.Error("All notifiers failed", "to", email.To, "chain", len(d.notifiers))
	return false
}
