package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/collabflow/collabflow/internal/domain"
	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/pkg/slogx"
)

var ErrNotAdministrator = errors.New("caller is not an administrator")

// AuthorizeService answers role questions from the user store. Every
// check re-reads the store; roles take effect immediately with no cache
// to invalidate.
type AuthorizeService struct {
	Store store.Store
}

// IsAdministrator reports whether userID holds the Administrator role.
// Fail-closed: a missing user or a store failure both read as false.
func (s *AuthorizeService) IsAdministrator(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("admin check failed, denying",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return false
	}

	return user.Role == domain.RoleAdministrator
}

// RequireAdministrator is IsAdministrator as an error for call sites
// that gate a whole operation.
func (s *AuthorizeService) RequireAdministrator(ctx context.Context, userID string) error {
	if !s.IsAdministrator(ctx, userID) {
		return ErrNotAdministrator
	}
	return nil
}
