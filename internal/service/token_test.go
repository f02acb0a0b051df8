package service

import (
	"context"
	"testing"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func TestTokenService_ExchangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	signer, err := jwtx.GenerateSignerEdDSA("test-key")
	require.NoError(t, err)

	st := newTestStore(t)
	svc := &TokenService{
		Store:  st,
		Signer: signer,
		Issuer: "collabflow-test",
	}

	users := &UserService{Store: st}
	user, err := users.Register(ctx, "login@example.com", "hunter2hunter2", "Login")
	require.NoError(t, err)

	t.Run("valid credentials yield verifiable token", func(t *testing.T) {
		token, err := svc.ExchangePassword(ctx, "login@example.com", "hunter2hunter2")
		require.NoError(t, err)
		require.Equal(t, "Bearer", token.TokenType)
		require.Equal(t, int64(jwtx.DefaultAccessTokenTTL/time.Second), token.ExpiresIn)

		claims, err := signer.Verifier("collabflow-test").Verify(token.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, user.Email, claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.ExchangePassword(ctx, "login@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		_, err := svc.ExchangePassword(ctx, "nobody@example.com", "hunter2hunter2")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("invited user without credentials cannot log in", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, st.Users().ApplyInviteAcceptance(ctx, "invited-uid", "invited@example.com", domain.RoleUser, now))

		_, err := svc.ExchangePassword(ctx, "invited@example.com", "anything-at-all")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
