package collabsdk

import (
	"context"
	"net/http"
)

// Register creates a new account with the base User role.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (RegisterResponse, error) {
	var out RegisterResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &out)
	return out, err
}

// PasswordGrant exchanges credentials for an access token and attaches
// it to the client.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/token", TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	}, &out)
	if err != nil {
		return TokenResponse{}, err
	}
	c.SetAccessToken(out.AccessToken)
	return out, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	err := c.do(ctx, http.MethodGet, "/v1/me", nil, &out)
	return out, err
}
