package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/service"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/internal/store/drivers/sqlite"
	"github.com/collabflow/collabflow/pkg/collabsdk"
	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/collabflow/collabflow/pkg/idx"
	"github.com/collabflow/collabflow/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

const testIssuer = "collabflow-test"

type testEnv struct {
	Server *httptest.Server
	Store  store.Store
	Signer *jwtx.EdDSASigner
}

// newTestEnv spins up the full router over a fresh sqlite store. Each
// test gets its own rate limiter state since middleware instances are
// per-router.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "collabflow_test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.GenerateSignerEdDSA("test-key")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authz := &service.AuthorizeService{Store: st}
	router := NewRouter(signer, signer.Verifier(testIssuer), "test", st, logger)
	router.InviteService = &service.InviteService{Store: st, Authz: authz, InviteTTL: 7 * 24 * time.Hour}
	router.ProjectService = &service.ProjectService{Store: st, Authz: authz}
	router.UserService = &service.UserService{Store: st}
	router.TokenService = &service.TokenService{Store: st, Signer: signer, Issuer: testIssuer}
	router.BootstrapService = &service.BootstrapService{Store: st, Token: "test-bootstrap-token"}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{Server: srv, Store: st, Signer: signer}
}

func (e *testEnv) seedUser(t *testing.T, email string, role domain.Role) domain.User {
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
	require.NoError(t, e.Store.Users().CreateUser(context.Background(), user))
	return user
}

// clientFor returns an SDK client carrying a freshly signed token for
// the given user.
func (e *testEnv) clientFor(t *testing.T, user domain.User) *collabsdk.Client {
	t.Helper()

	token, err := e.Signer.Sign(jwtx.NewAccessClaims(user.ID, user.Email, testIssuer, time.Hour, time.Now()))
	require.NoError(t, err)

	c := collabsdk.NewClient(e.Server.URL)
	c.SetAccessToken(token)
	return c
}

func (e *testEnv) client() *collabsdk.Client {
	return collabsdk.NewClient(e.Server.URL)
}
