package collab_test

import (
	"testing"

	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/stretchr/testify/require"
)

// TestInviteOnboardingFlow covers the full onboarding path:
// 1. Bootstrap the first administrator
// 2. Administrator mints an invite for a new teammate
// 3. Teammate registers and accepts the invite
// 4. Teammate's profile reflects the invited role
func TestInviteOnboardingFlow(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := collabsdk.NewClient(baseURL)
	bootstrapAdmin(t, client)

	admin := loginAs(t, baseURL, adminEmail, adminPassword)

	invite, err := admin.CreateInvite(t.Context(), "dana@example.com", "User")
	require.NoError(t, err)
	require.NotEmpty(t, invite.InviteCode)
	require.NotEmpty(t, invite.ExpiresAt)

	t.Logf("Invite minted: %s", invite.InviteCode)

	dana, danaID := registerAndLogin(t, baseURL, "dana@example.com", "DanaPass123!", "Dana")

	// Email comparison is case-insensitive on acceptance.
	accepted, err := dana.AcceptInvite(t.Context(), invite.InviteCode, danaID, "Dana@Example.com")
	require.NoError(t, err)
	require.True(t, accepted.Success)
	require.Equal(t, "User", accepted.Role)

	me, err := dana.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, danaID, me.UserID)
	require.Equal(t, "User", me.Role)
	require.True(t, me.Onboarded)

	// A consumed invite cannot be redeemed again.
	_, err = dana.AcceptInvite(t.Context(), invite.InviteCode, danaID, "dana@example.com")
	require.True(t, collabsdk.IsCode(err, collabsdk.CodeNotFound), "got %v", err)
}

// TestInviteAccessControl verifies the admin gate and email binding on invites.
func TestInviteAccessControl(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := collabsdk.NewClient(baseURL)
	bootstrapAdmin(t, client)
	admin := loginAs(t, baseURL, adminEmail, adminPassword)

	t.Run("non-admin cannot mint", func(t *testing.T) {
		user, _ := registerAndLogin(t, baseURL, "eve@example.com", "EvePass123!!", "Eve")
		_, err := user.CreateInvite(t.Context(), "friend@example.com", "User")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodePermissionDenied), "got %v", err)
	})

	t.Run("wrong email cannot accept", func(t *testing.T) {
		invite, err := admin.CreateInvite(t.Context(), "frank@example.com", "User")
		require.NoError(t, err)

		eve := loginAs(t, baseURL, "eve@example.com", "EvePass123!!")
		meResp, err := eve.Me(t.Context())
		require.NoError(t, err)

		_, err = eve.AcceptInvite(t.Context(), invite.InviteCode, meResp.UserID, "eve@example.com")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodePermissionDenied), "got %v", err)
	})

	t.Run("unknown code", func(t *testing.T) {
		eve := loginAs(t, baseURL, "eve@example.com", "EvePass123!!")
		meResp, err := eve.Me(t.Context())
		require.NoError(t, err)

		_, err = eve.AcceptInvite(t.Context(), "no-such-code", meResp.UserID, "eve@example.com")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodeNotFound), "got %v", err)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := admin.CreateInvite(t.Context(), "grace@example.com", "Owner")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodeInvalidArgument), "got %v", err)
	})
}
