package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/collabflow/collabflow/pkg/idx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

var (
	ErrBootstrapForbidden  = errors.New("bootstrap token mismatch")
	ErrAlreadyBootstrapped = errors.New("users already exist")
	ErrBootstrapNotEnabled = errors.New("bootstrap is not enabled")
)

// BootstrapService creates the first Administrator. Without it there is
// no admin to mint invites, and no invite path to the Administrator
// role from an empty store.
type BootstrapService struct {
	Store store.Store

	// Token guards the endpoint. Empty disables bootstrap entirely.
	Token string
}

// Bootstrap creates the initial admin account. Refuses when the
// presented token does not match or when any user already exists.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password, displayName string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if s.Token == "" {
		return domain.User{}, ErrBootstrapNotEnabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		log.Warn("bootstrap attempted with bad token")
		return domain.User{}, ErrBootstrapForbidden
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidRegistration
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !empty {
		return domain.User{}, ErrAlreadyBootstrapped
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Role:         domain.RoleAdministrator,
		Onboarded:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The empty check and the insert are not atomic; the email unique
	// constraint backstops a racing second bootstrap.
	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrAlreadyBootstrapped
		}
		return domain.User{}, err
	}

	log.Info("bootstrap administrator created",
		slog.String("user_id", admin.ID),
		slog.String("email", email),
	)
	return admin, nil
}
