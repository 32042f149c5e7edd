package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultResendURL = "https://api.resend.com/emails"

// ResendNotifier sends through the Resend transactional email API.
// Primary provider in the production chain.
type ResendNotifier struct {
	apiKey     string
	from       string
	apiURL     string
	httpClient *http.Client
}

// ResendOption is a function that configures a ResendNotifier
type ResendOption func(*ResendNotifier)

// WithResendURL overrides the API endpoint. Used by tests.
func WithResendURL(url string) ResendOption {
	return func(n *ResendNotifier) {
		n.apiURL = url
	}
}

// WithResendHTTPClient sets the HTTP client for API calls
func WithResendHTTPClient(client *http.Client) ResendOption {
	return func(n *ResendNotifier) {
		n.httpClient = client
	}
}

func NewResendNotifier(apiKey, from string, opts ...ResendOption) *ResendNotifier {
	n := &ResendNotifier{
		apiKey:     apiKey,
		from:       from,
		apiURL:     defaultResendURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *ResendNotifier) Name() string {
	return "resend"
}

func (n *ResendNotifier) Send(ctx context.Context, email Email) error {
	if n.apiKey == "" {
		return fmt.Errorf("resend api key not configured")
	}

	payload := map[string]interface{}{
		"from":    n.from,
		"to":      []string{email.To},
		"subject": email.Subject,
		"html":    email.Html,
	}
	if email.Text != "" {
		payload["text"] = email.Text
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend rejected email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
