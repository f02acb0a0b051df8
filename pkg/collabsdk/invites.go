package collabsdk

import (
	"context"
	"net/http"
)

// CreateInvite mints an invite code for email granting role on
// acceptance. Requires an administrator access token.
func (c *Client) CreateInvite(ctx context.Context, email, role string) (CreateInviteResponse, error) {
	var out CreateInviteResponse
	err := c.do(ctx, http.MethodPost, "/v1/invites", CreateInviteRequest{
		Email: email,
		Role:  role,
	}, &out)
	return out, err
}

// AcceptInvite redeems an invite code for userID. No access token is
// required; the code plus a matching email is the credential.
func (c *Client) AcceptInvite(ctx context.Context, inviteCode, userID, email string) (AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	err := c.do(ctx, http.MethodPost, "/v1/invites/accept", AcceptInviteRequest{
		InviteCode: inviteCode,
		UserID:     userID,
		Email:      email,
	}, &out)
	return out, err
}
