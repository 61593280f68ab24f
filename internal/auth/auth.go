// Package auth holds the admin session: logging in, persisting the
// credential between runs and gating access to the trader list.
package auth

import (
	"context"
	"strings"

	"github.com/aurumfx/lbadmin/internal/api"
	"github.com/aurumfx/lbadmin/internal/model"
)

// Credentials are what a successful login yields.
type Credentials struct {
	Token       string
	DisplayName string
}

// Login exchanges a username and password for a session token.
// The client should carry no token provider.
func Login(ctx context.Context, client *api.Client, username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &model.ValidationError{Field: "username", Reason: "is required"}
	}
	if password == "" {
		return nil, &model.ValidationError{Field: "password", Reason: "is required"}
	}

	resp, err := client.Post(ctx, api.PathLogin, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var data api.LoginData
	if err := api.DecodeEnvelope(resp, &data); err != nil {
		return nil, err
	}

	if data.Token == "" {
		return nil, &model.ServerError{StatusCode: resp.StatusCode, Message: "empty token in response"}
	}

	name := data.Name
	if name == "" {
		name = username
	}
	return &Credentials{Token: data.Token, DisplayName: name}, nil
}
