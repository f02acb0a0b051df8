package service

import (
	"context"
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

const minPasswordLength = 8

var (
	ErrInvalidRegistration = errors.New("a valid email and a password of at least 8 characters are required")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUserNotFound        = errors.New("user not found")
)

type UserService struct {
	Store store.Store
}

// Register creates a self-service account with the base User role.
// Accounts start un-onboarded; accepting an invite flips the flag and
// may grant a higher role.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidRegistration
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Onboarded:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return user, nil
}

// Profile is a user document plus the ids of the projects they belong
// to, derived from the membership table rather than stored on the user.
type Profile struct {
	User       domain.User
	ProjectIDs []string
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, userID string) (Profile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, err
	}

	ids, err := s.Store.Projects().ListProjectIDsByMember(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{User: user, ProjectIDs: ids}, nil
}
