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

const defaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridNotifier sends through the SendGrid v3 mail API. Secondary
// provider in the production chain.
type SendGridNotifier struct {
	apiKey     string
	from       string
	apiURL     string
	httpClient *http.Client
}

// SendGridOption is a function that configures a SendGridNotifier
type SendGridOption func(*SendGridNotifier)

// WithSendGridURL overrides the API endpoint. Used by tests.
func WithSendGridURL(url string) SendGridOption {
	return func(n *SendGridNotifier) {
		n.apiURL = url
	}
}

// WithSendGridHTTPClient sets the HTTP client for API calls
func WithSendGridHTTPClient(client *http.Client) SendGridOption {
	return func(n *SendGridNotifier) {
		n.httpClient = client
	}
}

func NewSendGridNotifier(apiKey, from string, opts ...SendGridOption) *SendGridNotifier {
	n := &SendGridNotifier{
		apiKey:     apiKey,
		from:       from,
		apiURL:     defaultSendGridURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *SendGridNotifier) Name() string {
	return "sendgrid"
}

func (n *SendGridNotifier) Send(ctx context.Context, email Email) error {
	if n.apiKey == "" {
		return fmt.Errorf("sendgrid api key not configured")
	}

	content := []map[string]string{}
	if email.Text != "" {
		content = append(content, map[string]string{"type": "text/plain", "value": email.Text})
	}
	if email.Html != "" {
		content = append(content, map[string]string{"type": "text/html", "value": email.Html})
	}

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": email.To}}},
		},
		"from":    map[string]string{"email": n.from},
		"subject": email.Subject,
		"content": content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid rejected email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
