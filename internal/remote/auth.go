// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"context"
	"net/http"
	"net/url"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login-with-username", nil,
		loginRequest{Username: username, Password: password}, &out)
	return out, err
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (RegisterResult, error) {
	var out RegisterResult
	err := c.do(ctx, http.MethodPost, "/auth/register", nil,
		registerRequest{Username: username, Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	q := url.Values{"email": {email}}
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", q, nil, nil)
}

// Me returns the authenticated viewer, including the follower and
// following id sets the friends page snapshots.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out)
	return out, err
}
