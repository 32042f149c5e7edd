package webhook

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	perrors "github.com/tendant/simple-provision/pkg/errors"
)

// SecretVerifier rejects requests whose shared secret does not match,
// before any body parsing. The secret is read from the x-webhook-secret
// header, falling back to Authorization: Bearer.
//
// An empty configured secret disables the check. config.WebhookConfig
// refuses that combination at startup in production, so the permissive
// default only survives in dev.
func SecretVerifier(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("x-webhook-secret")
			if provided == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					provided = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				slog.Warn("Webhook secret mismatch", "remote", r.RemoteAddr)
				renderError(w, r, perrors.Unauthorized("unauthorized"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
