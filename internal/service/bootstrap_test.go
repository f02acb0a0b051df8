package service

import (
	"context"
	"testing"

	"github.com/collabflow/collabflow/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestBootstrapService_Bootstrap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates first administrator", func(t *testing.T) {
		st := newTestStore(t)
		svc := &BootstrapService{Store: st, Token: "secret-token"}

		admin, err := svc.Bootstrap(ctx, "secret-token", "root@example.com", "hunter2hunter2", "Root")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdministrator, admin.Role)
		require.True(t, admin.Onboarded)

		authz := &AuthorizeService{Store: st}
		require.True(t, authz.IsAdministrator(ctx, admin.ID))
	})

	t.Run("token mismatch", func(t *testing.T) {
		svc := &BootstrapService{Store: newTestStore(t), Token: "secret-token"}
		_, err := svc.Bootstrap(ctx, "guess", "root@example.com", "hunter2hunter2", "")
		require.ErrorIs(t, err, ErrBootstrapForbidden)
	})

	t.Run("disabled without configured token", func(t *testing.T) {
		svc := &BootstrapService{Store: newTestStore(t)}
		_, err := svc.Bootstrap(ctx, "", "root@example.com", "hunter2hunter2", "")
		require.ErrorIs(t, err, ErrBootstrapNotEnabled)
	})

	t.Run("refuses once users exist", func(t *testing.T) {
		st := newTestStore(t)
		seedUser(t, st, "existing@example.com", domain.RoleUser)

		svc := &BootstrapService{Store: st, Token: "secret-token"}
		_, err := svc.Bootstrap(ctx, "secret-token", "root@example.com", "hunter2hunter2", "")
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})
}
