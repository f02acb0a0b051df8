package service

import (
	"context"
	"testing"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/collabflow/collabflow/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newInviteService(t *testing.T) (*InviteService, store.Store, domain.User) {
	t.Helper()

	st := newTestStore(t)
	admin := seedUser(t, st, "admin@example.com", domain.RoleAdministrator)
	svc := &InviteService{
		Store:     st,
		Authz:     &AuthorizeService{Store: st},
		InviteTTL: 7 * 24 * time.Hour,
	}
	return svc, st, admin
}

func TestInviteService_CreateInvite(t *testing.T) {
	t.Parallel()

	svc, st, admin := newInviteService(t)
	ctx := context.Background()

	t.Run("administrator mints invite", func(t *testing.T) {
		minted, err := svc.CreateInvite(ctx, admin.ID, "new@example.com", domain.RoleUser)
		require.NoError(t, err)
		require.NotEmpty(t, minted.Code)
		require.NotEmpty(t, minted.InviteID)
		require.Equal(t, domain.RoleUser, minted.Role)
		require.NotNil(t, minted.ExpiresAt)

		// Only the fingerprint is persisted, never the raw code.
		stored, err := st.Invites().GetPendingInviteByCodeHash(ctx, cryptox.FingerprintToken(minted.Code))
		require.NoError(t, err)
		require.NotEqual(t, minted.Code, stored.CodeHash)
		require.Equal(t, domain.InviteStatusPending, stored.Status)
		require.Equal(t, admin.ID, stored.CreatedBy)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := svc.CreateInvite(ctx, admin.ID, "new@example.com", domain.Role("Owner"))
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := svc.CreateInvite(ctx, admin.ID, "   ", domain.RoleUser)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("non-administrator denied despite valid input", func(t *testing.T) {
		regular := seedUser(t, svc.Store, "plain@example.com", domain.RoleUser)
		_, err := svc.CreateInvite(ctx, regular.ID, "new2@example.com", domain.RoleUser)
		require.ErrorIs(t, err, ErrNotAdministrator)
	})

	t.Run("unauthenticated caller denied", func(t *testing.T) {
		_, err := svc.CreateInvite(ctx, "", "new3@example.com", domain.RoleUser)
		require.ErrorIs(t, err, ErrNotAdministrator)
	})
}

func TestInviteService_AcceptInvite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("acceptance grants role and onboards", func(t *testing.T) {
		svc, st, admin := newInviteService(t)

		minted, err := svc.CreateInvite(ctx, admin.ID, "Invitee@Example.com", domain.RoleAdministrator)
		require.NoError(t, err)

		// Case-insensitive email match must succeed.
		userID := idx.New().String()
		role, err := svc.AcceptInvite(ctx, minted.Code, userID, "invitee@example.COM")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, role)

		user, err := st.Users().GetUserByID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, user.Role)
		require.True(t, user.Onboarded)
	})

	t.Run("existing user keeps profile and credentials", func(t *testing.T) {
		svc, st, admin := newInviteService(t)

		existing := seedUser(t, st, "member@example.com", domain.RoleUser)

		minted, err := svc.CreateInvite(ctx, admin.ID, existing.Email, domain.RoleAdministrator)
		require.NoError(t, err)

		_, err = svc.AcceptInvite(ctx, minted.Code, existing.ID, existing.Email)
		require.NoError(t, err)

		after, err := st.Users().GetUserByID(ctx, existing.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, after.Role)
		require.Equal(t, existing.DisplayName, after.DisplayName)
		require.Equal(t, existing.PasswordHash, after.PasswordHash)
	})

	t.Run("email mismatch", func(t *testing.T) {
		svc, _, admin := newInviteService(t)

		minted, err := svc.CreateInvite(ctx, admin.ID, "right@example.com", domain.RoleUser)
		require.NoError(t, err)

		_, err = svc.AcceptInvite(ctx, minted.Code, idx.New().String(), "wrong@example.com")
		require.ErrorIs(t, err, ErrInviteEmailMismatch)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc, _, _ := newInviteService(t)

		_, err := svc.AcceptInvite(ctx, "not-a-real-code", idx.New().String(), "a@example.com")
		require.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("second acceptance of the same code fails", func(t *testing.T) {
		svc, _, admin := newInviteService(t)

		minted, err := svc.CreateInvite(ctx, admin.ID, "once@example.com", domain.RoleUser)
		require.NoError(t, err)

		_, err = svc.AcceptInvite(ctx, minted.Code, idx.New().String(), "once@example.com")
		require.NoError(t, err)

		_, err = svc.AcceptInvite(ctx, minted.Code, idx.New().String(), "once@example.com")
		require.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("expired invite is invisible", func(t *testing.T) {
		svc, st, admin := newInviteService(t)

		code, err := cryptox.GenerateToken(cryptox.TokenSize128)
		require.NoError(t, err)

		past := time.Now().UTC().Add(-time.Hour)
		now := time.Now().UTC()
		require.NoError(t, st.Invites().CreateInvite(ctx, domain.Invite{
			ID:        idx.New().String(),
			Email:     "late@example.com",
			CodeHash:  cryptox.FingerprintToken(code),
			Status:    domain.InviteStatusPending,
			Role:      domain.RoleUser,
			CreatedBy: admin.ID,
			ExpiresAt: &past,
			CreatedAt: now,
			UpdatedAt: now,
		}))

		_, err = svc.AcceptInvite(ctx, code, idx.New().String(), "late@example.com")
		require.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newInviteService(t)

		_, err := svc.AcceptInvite(ctx, "", "uid", "a@example.com")
		require.ErrorIs(t, err, ErrInvalidAcceptRequest)
		_, err = svc.AcceptInvite(ctx, "code", "", "a@example.com")
		require.ErrorIs(t, err, ErrInvalidAcceptRequest)
		_, err = svc.AcceptInvite(ctx, "code", "uid", "")
		require.ErrorIs(t, err, ErrInvalidAcceptRequest)
	})
}

func TestHousekeeping_DeletesExpiredInvites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, st, admin := newInviteService(t)

	code, err := cryptox.GenerateToken(cryptox.TokenSize128)
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Minute)
	now := time.Now().UTC()
	require.NoError(t, st.Invites().CreateInvite(ctx, domain.Invite{
		ID:        idx.New().String(),
		Email:     "gone@example.com",
		CodeHash:  cryptox.FingerprintToken(code),
		Status:    domain.InviteStatusPending,
		Role:      domain.RoleUser,
		CreatedBy: admin.ID,
		ExpiresAt: &past,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	// A live invite must survive the sweep.
	minted, err := svc.CreateInvite(ctx, admin.ID, "keep@example.com", domain.RoleUser)
	require.NoError(t, err)

	require.NoError(t, st.Invites().DeleteExpiredInvites(ctx))

	_, err = st.Invites().GetPendingInviteByCodeHash(ctx, cryptox.FingerprintToken(code))
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Invites().GetPendingInviteByCodeHash(ctx, cryptox.FingerprintToken(minted.Code))
	require.NoError(t, err)
}
