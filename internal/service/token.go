package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/collabflow/collabflow/internal/store"
	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/collabflow/collabflow/pkg/jwtx"
	"github.com/collabflow/collabflow/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type TokenService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string

	// AccessTokenTTL defaults to jwtx.DefaultAccessTokenTTL when zero.
	AccessTokenTTL time.Duration
}

type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int64 // seconds
}

// ExchangePassword implements the password grant: email + password in,
// signed access token out. Unknown email and wrong password are not
// distinguishable from the outside.
func (s *TokenService) ExchangePassword(ctx context.Context, email, password string) (AccessToken, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AccessToken{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AccessToken{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return AccessToken{}, err
	}

	// Invited-but-unregistered users have no credentials yet.
	if user.PasswordHash == "" {
		return AccessToken{}, ErrInvalidCredentials
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		log.Warn("password verification failed",
			slog.String("user_id", user.ID),
		)
		return AccessToken{}, ErrInvalidCredentials
	}

	ttl := s.AccessTokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Email, s.Issuer, ttl, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return AccessToken{}, err
	}

	return AccessToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}
