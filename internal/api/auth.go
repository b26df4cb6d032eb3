package api

import (
	"context"
	"fmt"

	"compdash/internal/model"
)

// LoginResponse is the session issued by POST /auth/login.
type LoginResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

// Login exchanges credentials for a token and user record. On success the
// token is attached to the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp LoginResponse
	if err := c.postJSON(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("no token returned from server")
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Logout tells the server the session is over. Token removal itself is
// client-side; a failed call is not fatal.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil)
}

// Verify checks the current token against the server.
func (c *Client) Verify(ctx context.Context) (*model.User, error) {
	var resp struct {
		Success bool       `json:"success"`
		User    model.User `json:"user"`
	}
	if err := c.getJSON(ctx, "/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
