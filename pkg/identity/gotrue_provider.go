package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoTrueProvider implements Provider against a GoTrue-compatible admin API
// (Supabase Auth). All calls authenticate with the service-role key.
type GoTrueProvider struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	pageSize   int
}

// GoTrueOption is a function that configures a GoTrueProvider
type GoTrueOption func(*GoTrueProvider)

// WithHTTPClient sets the HTTP client for provider API calls
func WithHTTPClient(client *http.Client) GoTrueOption {
	return func(p *GoTrueProvider) {
		p.httpClient = client
	}
}

// WithPageSize sets the page size used when listing users
func WithPageSize(size int) GoTrueOption {
	return func(p *GoTrueProvider) {
		p.pageSize = size
	}
}

// NewGoTrueProvider creates a provider client for the given auth base URL
// (e.g. https://<project>.supabase.co/auth/v1).
func NewGoTrueProvider(baseURL, serviceKey string, opts ...GoTrueOption) *GoTrueProvider {
	p := &GoTrueProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		pageSize:   1000,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type gotrueUser struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	EmailConfirmedAt *string   `json:"email_confirmed_at"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u gotrueUser) toIdentity() Identity {
	return Identity{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmedAt != nil,
		CreatedAt:      u.CreatedAt,
	}
}

// CreateUser creates a new identity via POST /admin/users
func (p *GoTrueProvider) CreateUser(ctx context.Context, params CreateUserParams) (Identity, error) {
	body, err := json.Marshal(map[string]interface{}{
		"email":         params.Email,
		"password":      params.Password,
		"email_confirm": params.EmailConfirmed,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to marshal create user request: %w", err)
	}

	resp, err := p.do(ctx, http.MethodPost, "/admin/users", bytes.NewReader(body))
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
		// GoTrue reports duplicate emails as 422 with a message; 409 covers
		// older deployments.
		msg := readErrorMessage(resp.Body)
		if isDuplicateEmailMessage(msg) || resp.StatusCode == http.StatusConflict {
			return Identity{}, ErrDuplicateEmail
		}
		return Identity{}, fmt.Errorf("create user rejected: %s", msg)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Identity{}, fmt.Errorf("create user failed: status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	var user gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, fmt.Errorf("failed to decode create user response: %w", err)
	}
	return user.toIdentity(), nil
}

// ListUsers returns the full user collection via GET /admin/users, paging
// until the provider returns a short page.
func (p *GoTrueProvider) ListUsers(ctx context.Context) ([]Identity, error) {
	var all []Identity
	for page := 1; ; page++ {
		path := fmt.Sprintf("/admin/users?page=%d&per_page=%d", page, p.pageSize)
		resp, err := p.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var result struct {
			Users []gotrueUser `json:"users"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode user list: %w", err)
		}

		for _, user := range result.Users {
			all = append(all, user.toIdentity())
		}
		if len(result.Users) < p.pageSize {
			return all, nil
		}
	}
}

// DeleteUser removes an identity via DELETE /admin/users/{id}
func (p *GoTrueProvider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	resp, err := p.do(ctx, http.MethodDelete, "/admin/users/"+id.String(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Idempotent delete
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete user failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendPasswordRecovery asks the provider to send its own recovery-link
// email via POST /recover
func (p *GoTrueProvider) SendPasswordRecovery(ctx context.Context, email string) error {
	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("failed to marshal recover request: %w", err)
	}

	resp, err := p.do(ctx, http.MethodPost, "/recover", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("password recovery failed: status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}
	slog.Info("Password recovery email requested", "email", email)
	return nil
}

func (p *GoTrueProvider) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	req.Header.Set("apikey", p.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	return resp, nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, msg := range []string{payload.Msg, payload.Message, payload.Error} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

func isDuplicateEmailMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already been registered") ||
		strings.Contains(lower, "already registered") ||
		strings.Contains(lower, "duplicate")
}
