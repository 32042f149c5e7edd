package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoTrueProviderCreateUser(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		require.Equal(t, "service-key", r.Header.Get("apikey"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@x.com", req["email"])
		assert.Equal(t, true, req["email_confirm"])

		confirmed := time.Now().UTC().Format(time.RFC3339)
		json.NewEncoder(w).Encode(gotrueUser{
			ID:               id,
			Email:            "a@x.com",
			EmailConfirmedAt: &confirmed,
			CreatedAt:        time.Now().UTC(),
		})
	}))
	defer server.Close()

	provider := NewGoTrueProvider(server.URL, "service-key")
	user, err := provider.CreateUser(context.Background(), CreateUserParams{
		Email:          "a@x.com",
		Password:       "Xy7mKp2nQr4s",
		EmailConfirmed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.EmailConfirmed)
}

func TestGoTrueProviderCreateUserDuplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"msg": "A user with this email address has already been registered",
		})
	}))
	defer server.Close()

	provider := NewGoTrueProvider(server.URL, "service-key")
	_, err := provider.CreateUser(context.Background(), CreateUserParams{Email: "a@x.com", Password: "pwd"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGoTrueProviderListUsersPaged(t *testing.T) {
	pageOne := make([]gotrueUser, 2)
	for i := range pageOne {
		pageOne[i] = gotrueUser{ID: uuid.New(), Email: uuid.NewString() + "@x.com"}
	}
	pageTwo := []gotrueUser{{ID: uuid.New(), Email: "last@x.com"}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users", r.URL.Path)
		page := r.URL.Query().Get("page")
		var users []gotrueUser
		switch page {
		case "1":
			users = pageOne
		case "2":
			users = pageTwo
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"users": users})
	}))
	defer server.Close()

	provider := NewGoTrueProvider(server.URL, "service-key", WithPageSize(2))
	users, err := provider.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, "last@x.com", users[2].Email)
}

func TestGoTrueProviderDeleteUserIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewGoTrueProvider(server.URL, "service-key")
	assert.NoError(t, provider.DeleteUser(context.Background(), uuid.New()))
}
