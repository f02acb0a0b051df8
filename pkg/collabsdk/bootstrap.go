package collabsdk

import (
	"context"
	"net/http"
)

// Bootstrap creates the first Administrator on an empty deployment.
// Guarded by the server's bootstrap token.
func (c *Client) Bootstrap(ctx context.Context, token, email, password, displayName string) (BootstrapResponse, error) {
	var out BootstrapResponse
	err := c.do(ctx, http.MethodPost, "/v1/bootstrap", BootstrapRequest{
		Token:       token,
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &out)
	return out, err
}
