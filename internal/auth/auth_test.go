package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumfx/lbadmin/internal/api"
	"github.com/aurumfx/lbadmin/internal/model"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, api.PathLogin, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)
		assert.Equal(t, "hunter2", req.Password)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"jwt-abc","name":"Site Admin"}}`))
	}))
	defer server.Close()

	creds, err := Login(context.Background(), api.NewClient(server.URL, nil), " admin ", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", creds.Token)
	assert.Equal(t, "Site Admin", creds.DisplayName)
}

func TestLogin_DisplayNameFallsBackToUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"data":{"token":"jwt-abc"}}`))
	}))
	defer server.Close()

	creds, err := Login(context.Background(), api.NewClient(server.URL, nil), "admin", "pw")

	require.NoError(t, err)
	assert.Equal(t, "admin", creds.DisplayName)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := Login(context.Background(), api.NewClient(server.URL, nil), "admin", "wrong")

	require.Error(t, err)
	assert.True(t, model.IsAuthorization(err))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLogin_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer server.Close()

	_, err := Login(context.Background(), api.NewClient(server.URL, nil), "admin", "pw")

	require.Error(t, err)
	assert.True(t, model.IsServer(err))
	assert.Contains(t, err.Error(), "empty token")
}

func TestLogin_MissingFields(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:0", nil)

	_, err := Login(context.Background(), client, "  ", "pw")
	assert.True(t, model.IsValidation(err))

	_, err = Login(context.Background(), client, "admin", "")
	assert.True(t, model.IsValidation(err))
}

func TestLogin_NetworkError(t *testing.T) {
	_, err := Login(context.Background(), api.NewClient("http://localhost:99999", nil), "admin", "pw")

	require.Error(t, err)
	assert.True(t, model.IsTransport(err))
}
