package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-provision/pkg/entitlement"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/profile"
	"github.com/tendant/simple-provision/pkg/provision"
)

type testServer struct {
	router   *chi.Mux
	provider *identity.InMemoryProvider
	repo     *profile.InMemoryRepository
}

func newTestServer(secret string) *testServer {
	ts := &testServer{
		router:   chi.NewRouter(),
		provider: identity.NewInMemoryProvider(),
		repo:     profile.NewInMemoryRepository(),
	}

	service := provision.NewService(
		ts.provider,
		profile.NewService(ts.repo),
		entitlement.NewMapper(),
		provision.WithWelcomeDispatcher(notification.NewDispatcher(&notification.MockNotifier{})),
		provision.WithUpdateDispatcher(notification.NewDispatcher(&notification.MockNotifier{})),
	)
	Routes(ts.router, NewHandle(service), secret)
	return ts
}

func (ts *testServer) postJSON(t *testing.T, body map[string]string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/provision", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProvisionNewUserLowercaseProduct(t *testing.T) {
	ts := newTestServer("topsecret")

	rec := ts.postJSON(t,
		map[string]string{"email": "a@x.com", "product": "stfour"},
		map[string]string{"x-webhook-secret": "topsecret"})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["access_level"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotEmpty(t, body["user_id"])
}

func TestProvisionSecondPurchaseUpgrades(t *testing.T) {
	ts := newTestServer("topsecret")
	headers := map[string]string{"x-webhook-secret": "topsecret"}

	rec := ts.postJSON(t, map[string]string{"email": "a@x.com", "product": "stfour"}, headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.postJSON(t, map[string]string{"email": "a@x.com", "product": "GLBNS"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["access_level"])
	assert.Equal(t, []interface{}{"STFOUR", "GLBNS"}, body["products"])
}

func TestProvisionWrongSecretNoSideEffects(t *testing.T) {
	ts := newTestServer("topsecret")

	rec := ts.postJSON(t,
		map[string]string{"email": "a@x.com", "product": "STFOUR"},
		map[string]string{"x-webhook-secret": "wrong"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "unauthorized", body["error"])

	users, err := ts.provider.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 0, ts.repo.Count())
}

func TestProvisionMissingSecretRejected(t *testing.T) {
	ts := newTestServer("topsecret")

	rec := ts.postJSON(t, map[string]string{"email": "a@x.com", "product": "STFOUR"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProvisionBearerSecretAccepted(t *testing.T) {
	ts := newTestServer("topsecret")

	rec := ts.postJSON(t,
		map[string]string{"email": "a@x.com", "product": "STFOUR"},
		map[string]string{"Authorization": "Bearer topsecret"})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestProvisionInvalidProduct(t *testing.T) {
	ts := newTestServer("topsecret")

	rec := ts.postJSON(t,
		map[string]string{"email": "b@x.com", "product": "XYZ"},
		map[string]string{"x-webhook-secret": "topsecret"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "invalid product")

	users, _ := ts.provider.ListUsers(context.Background())
	assert.Empty(t, users)
	assert.Equal(t, 0, ts.repo.Count())
}

func TestProvisionMissingFields(t *testing.T) {
	ts := newTestServer("")

	rec := ts.postJSON(t, map[string]string{"product": "STFOUR"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.postJSON(t, map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProvisionFormEncodedBody(t *testing.T) {
	ts := newTestServer("topsecret")

	form := url.Values{}
	form.Set("email", "a@x.com")
	form.Set("product", "glbns")
	form.Set("name", "Ada")

	req := httptest.NewRequest(http.MethodPost, "/provision", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-webhook-secret", "topsecret")

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["access_level"])
}

func TestProvisionNoSecretConfiguredAllowsRequests(t *testing.T) {
	// Permissive default; refused at startup in production by config validation
	ts := newTestServer("")

	rec := ts.postJSON(t, map[string]string{"email": "a@x.com", "product": "STFOUR"}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestProvisionMalformedJSON(t *testing.T) {
	ts := newTestServer("")

	req := httptest.NewRequest(http.MethodPost, "/provision", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
