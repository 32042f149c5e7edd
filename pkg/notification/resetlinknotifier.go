package notification

import (
	"context"

	"github.com/tendant/simple-provision/pkg/identity"
)

// ResetLinkNotifier falls back to the identity provider's own
// recovery-link email. It ignores the rendered body and subject; the
// provider sends its own template. Only meaningful for the new-account
// chain, where the recipient has a just-created identity.
type ResetLinkNotifier struct {
	provider identity.Provider
}

func NewResetLinkNotifier(provider identity.Provider) *ResetLinkNotifier {
	return &ResetLinkNotifier{provider: provider}
}

func (n *ResetLinkNotifier) Name() string {
	return "reset-link"
}

func (n *ResetLinkNotifier) Send(ctx context.Context, email Email) error {
	return n.provider.SendPasswordRecovery(ctx, email.To)
}
