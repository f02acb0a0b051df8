package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/internal/store/drivers/sqlite"
	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/collabflow/collabflow/pkg/idx"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh sqlite store in a temp dir with the
// schema applied. A file DSN, not :memory:, so every pooled connection
// sees the same database.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "collabflow_test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email string, role domain.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Test " + string(role),
		PasswordHash: hash,
		Role:         role,
		Onboarded:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}
