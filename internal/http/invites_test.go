package http

import (
	"context"
	"testing"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/idx"

	"github.com/stretchr/testify/require"
)

func TestInviteEndpoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", domain.RoleAdministrator)
	adminClient := env.clientFor(t, admin)

	t.Run("mint and accept", func(t *testing.T) {
		minted, err := adminClient.CreateInvite(ctx, "newcomer@example.com", "Administrator")
		require.NoError(t, err)
		require.True(t, minted.Success)
		require.NotEmpty(t, minted.InviteCode)
		require.NotEmpty(t, minted.ExpiresAt)

		userID := idx.New().String()
		accepted, err := env.client().AcceptInvite(ctx, minted.InviteCode, userID, "NEWCOMER@example.com")
		require.NoError(t, err)
		require.True(t, accepted.Success)
		require.Equal(t, "Administrator", accepted.Role)

		user, err := env.Store.Users().GetUserByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, user.Role)
		require.True(t, user.Onboarded)
	})

	t.Run("accept with wrong email", func(t *testing.T) {
		minted, err := adminClient.CreateInvite(ctx, "target@example.com", "User")
		require.NoError(t, err)

		_, err = env.client().AcceptInvite(ctx, minted.InviteCode, idx.New().String(), "other@example.com")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodePermissionDenied), "got %v", err)
	})

	t.Run("accept unknown code", func(t *testing.T) {
		_, err := env.client().AcceptInvite(ctx, "bogus-code", idx.New().String(), "x@example.com")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodeNotFound), "got %v", err)
	})

	t.Run("mint with invalid role", func(t *testing.T) {
		_, err := adminClient.CreateInvite(ctx, "someone@example.com", "Owner")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodeInvalidArgument), "got %v", err)
	})

	t.Run("mint as non-administrator", func(t *testing.T) {
		regular := env.seedUser(t, "plain@example.com", domain.RoleUser)
		_, err := env.clientFor(t, regular).CreateInvite(ctx, "someone@example.com", "User")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodePermissionDenied), "got %v", err)
	})

	t.Run("mint without token", func(t *testing.T) {
		_, err := env.client().CreateInvite(ctx, "someone@example.com", "User")
		require.True(t, collabsdk.IsCode(err, collabsdk.CodeUnauthenticated), "got %v", err)
	})
}
