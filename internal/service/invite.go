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

var (
	ErrInvalidInviteRequest = errors.New("a valid email and role ('User' or 'Administrator') are required")
	ErrInvalidAcceptRequest = errors.New("missing invite code, user id, or email")
	ErrInviteNotFound       = errors.New("invalid, expired, or already used invite code")
	ErrInviteEmailMismatch  = errors.New("invite code is not associated with this email address")
)

type InviteService struct {
	Store store.Store
	Authz *AuthorizeService

	// InviteTTL bounds how long a minted invite stays acceptable.
	// Zero or negative disables expiry.
	InviteTTL time.Duration
}

// MintedInvite is the result of CreateInvite. Code is the raw opaque
// token handed to the invitee; only its fingerprint is persisted.
type MintedInvite struct {
	InviteID  string
	Code      string
	Email     string
	Role      domain.Role
	ExpiresAt *time.Time
}

// CreateInvite mints a pending invite for email granting role on
// acceptance. Only administrators may call it.
func (s *InviteService) CreateInvite(ctx context.Context, callerID, email string, role domain.Role) (MintedInvite, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = strings.TrimSpace(email)
	if email == "" || !role.Valid() {
		return MintedInvite{}, ErrInvalidInviteRequest
	}

	// 2. Verify the caller is an administrator.
	if err := s.Authz.RequireAdministrator(ctx, callerID); err != nil {
		log.Warn("non-administrator attempted to create invite",
			slog.String("caller_id", callerID),
		)
		return MintedInvite{}, err
	}

	// 3. Generate the opaque invite code. Pure random, never derived
	// from the email or the caller.
	code, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		log.Error("failed to generate invite code", slog.Any("error", err))
		return MintedInvite{}, err
	}

	now := time.Now().UTC()

	var expiresAt *time.Time
	if s.InviteTTL > 0 {
		exp := now.Add(s.InviteTTL)
		expiresAt = &exp
	}

	invite := domain.Invite{
		ID:        idx.New().String(),
		Email:     email,
		CodeHash:  cryptox.FingerprintToken(code),
		Status:    domain.InviteStatusPending,
		Role:      role,
		CreatedBy: callerID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return MintedInvite{}, err
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("email", email),
		slog.String("role", role.String()),
		slog.String("created_by", callerID),
	)

	return MintedInvite{
		InviteID:  invite.ID,
		Code:      code,
		Email:     email,
		Role:      role,
		ExpiresAt: expiresAt,
	}, nil
}

// AcceptInvite redeems an invite code on behalf of userID. There is no
// caller authorization; trust is anchored in possession of the code
// plus an email matching the invite, case-insensitively.
//
// The pending → accepted transition and the user role grant commit in
// one transaction. The transition is a compare-and-swap, so two racing
// acceptances of the same code cannot both succeed.
func (s *InviteService) AcceptInvite(ctx context.Context, code, userID, email string) (domain.Role, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	code = strings.TrimSpace(code)
	email = strings.TrimSpace(email)
	if code == "" || userID == "" || email == "" {
		return "", ErrInvalidAcceptRequest
	}

	hash := cryptox.FingerprintToken(code)
	now := time.Now().UTC()

	var granted domain.Role
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Look up the pending, unexpired invite for this code.
		invite, err := tx.Invites().GetPendingInviteByCodeHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		// 3. The supplied email must match the invite's target.
		if !strings.EqualFold(invite.Email, email) {
			return ErrInviteEmailMismatch
		}

		// 4. Consume the invite. A lost race reads as not found, same
		// as an already-used code.
		if err := tx.Invites().AcceptInvite(ctx, invite.ID, userID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		// 5. Grant the role. Merge semantics: a user who already
		// registered keeps their display name and credentials.
		if err := tx.Users().ApplyInviteAcceptance(ctx, userID, email, invite.Role, now); err != nil {
			return err
		}

		granted = invite.Role
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("invite accepted",
		slog.String("user_id", userID),
		slog.String("role", granted.String()),
	)

	return granted, nil
}
